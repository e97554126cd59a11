/*
Package manifest holds the resource and method definitions a client is built
from, plus the middleware factories applied to every call.

A Manifest answers two questions: which method descriptor backs
resource.method (CreateMethodDescriptor), and which middleware chain applies
to a call (CreateMiddleware). Both the client and the mock package consume it
through those two methods only.
*/
package manifest
