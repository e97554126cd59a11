/*
Package metrics provides a client for creating custom metrics through the
Tarmac host runtime.

The package exposes constructors for Counter, Gauge, and Histogram metric
handles, each backed by protobuf payloads sent over waPC host calls. The mock
transport and the Instrument middleware use it to count resolved and
unmatched calls.

Emission methods are best-effort: Inc, Dec and Observe do not return
errors, and marshal or host-call failures are dropped.
*/
package metrics
