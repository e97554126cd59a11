/*
Package mock declares fake responses for manifest based clients.

A declaration names a resource method, the params a call is expected to
carry and the response to answer it with. Params are literal values or
matchers:

	transport := mock.NewTransport(mock.TransportConfig{})
	client, _ := httpclient.New(httpclient.Config{Manifest: m, Gateway: transport})

	users, _ := transport.MockClient(client.Manifest())
	users.Resource("users").
		Method("get").
		With(map[string]any{"id": mock.MustExpr(`value > 40`)}).
		Response(map[string]any{"name": "Ada"})

	resp, err := client.Call("users", "get", map[string]any{"id": 42})

Declarations are resolved lazily through the same descriptors and
middleware the client uses, with middleware told that the request is a
mock, so what is matched is the request the client would really send.
*/
package mock
