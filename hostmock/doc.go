/*
Package hostmock provides a pretend host for waPC calls.

Components in this module reach the host through a HostCall function of the
form func(namespace, capability, function string, payload []byte). Tests
inject Mock.HostCall in its place to check routing, inspect protobuf
payloads and script responses or failures.

	m, _ := hostmock.New(hostmock.Config{
		ExpectedNamespace:  "tarmac",
		ExpectedCapability: "httpclient",
		ExpectedFunction:   "call",
		PayloadValidator: func(p []byte) error {
			// Unmarshal and assert fields here
			return nil
		},
		Response: func() []byte { return okResponse },
	})

Behavior:

  - Every invocation is recorded and available through Calls.
  - If Fail is true, HostCall returns Error, or ErrOperationFailed when Error is nil.
  - Otherwise non-empty ExpectedNamespace, ExpectedCapability and
    ExpectedFunction are enforced and PayloadValidator runs when provided.
    Response then provides the return bytes; without it HostCall returns nil.
*/
package hostmock
