/*
Package resourcemock lets tests declare expected calls against a
manifest-driven HTTP client and answer them with canned responses.

A declaration names a logical resource and method plus the parameters the
caller is expected to send. Declarations are resolved through the same
manifest and middleware chain the real client uses, so a mock written against
the logical call matches the physical request that reaches the transport.
Parameters may be literals or matchers that accept a range of values.

The root package holds the runtime configuration and the sentinel errors
shared by the capability clients:

  - request: the request value with URL templating and overrides
  - manifest: resource and method definitions plus middleware factories
  - middleware: the request transformation contract and built-ins
  - httpclient: the client and its waPC host gateway
  - mock: declarations, resolution, mock requests and the mock transport
  - logging, metrics: host-call capability clients
  - hostmock: a host-call double for tests
*/
package resourcemock
