/*
Package httpclient provides a manifest-driven HTTP client for Tarmac
WebAssembly functions.

Callers name a resource and method from the manifest and pass parameters:

	resp, err := client.Call("users", "get", map[string]any{"id": 42})

The client builds a request from the method descriptor, runs the manifest's
middleware chain and hands the result to a Gateway. The default HostGateway
serializes the request with protobuf and sends it to the host through waPC.
Tests swap the gateway for the mock transport from package mock.

Errors use sentinel values combined with the underlying cause and can be
checked with errors.Is.
*/
package httpclient
