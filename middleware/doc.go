/*
Package middleware defines how requests are transformed between the caller
and the gateway.

A manifest holds Factory values. For every call, and for every mock
resolution, the factories are instantiated with Params naming the resource
method and whether a mock is being resolved, and the resulting chain is
applied left to right with Apply. Because mocks run through the same chain,
a mock declaration written against the logical call sees the same renamed
parameters, injected headers and encoded bodies as the real call.
*/
package middleware
