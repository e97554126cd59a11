package metrics

import (
	"errors"
	"regexp"
	"strings"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	resourcemock "github.com/tarmac-project/resourcemock"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnGauge        = "gauge"
	fnHistogram    = "histogram"
	actionInc      = "inc"
	actionDec      = "dec"
)

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:]+$`)
	invalidNameChars  = regexp.MustCompile(`[^a-zA-Z0-9_:]+`)
)

// Client defines the metrics capability interface.
type Client interface {
	// NewCounter creates a named counter metric handle.
	NewCounter(name string) (*Counter, error)

	// NewGauge creates a named gauge metric handle.
	NewGauge(name string) (*Gauge, error)

	// NewHistogram creates a named histogram metric handle.
	NewHistogram(name string) (*Histogram, error)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig resourcemock.RuntimeConfig

	// HostCall overrides the waPC host function used for metrics operations.
	HostCall resourcemock.HostCall
}

// HostMetrics is the metrics capability client implementation.
type HostMetrics struct {
	runtime  resourcemock.RuntimeConfig
	hostCall resourcemock.HostCall
}

// metric is the state shared by every handle kind.
type metric struct {
	name      string
	namespace string
	hostCall  resourcemock.HostCall
}

// send is best-effort: marshal and host failures never reach the caller.
func (m metric) send(fn string, payload []byte, err error) {
	if err != nil {
		return
	}
	_, _ = m.hostCall(m.namespace, capabilityName, fn, payload)
}

// Counter is a named counter metric handle.
type Counter struct{ metric }

// Gauge is a named gauge metric handle.
type Gauge struct{ metric }

// Histogram is a named histogram metric handle.
type Histogram struct{ metric }

var _ Client = (*HostMetrics)(nil)

// New creates a metrics client with namespace defaults and optional host-call override.
func New(config Config) (*HostMetrics, error) {
	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}
	return &HostMetrics{runtime: config.SDKConfig.WithDefaults(), hostCall: hostCall}, nil
}

func (c *HostMetrics) handle(name string) (metric, error) {
	if !isMetricNameValid.MatchString(name) {
		return metric{}, ErrInvalidMetricName
	}
	return metric{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// NewCounter creates a named counter metric handle.
func (c *HostMetrics) NewCounter(name string) (*Counter, error) {
	m, err := c.handle(name)
	if err != nil {
		return nil, err
	}
	return &Counter{m}, nil
}

// NewGauge creates a named gauge metric handle.
func (c *HostMetrics) NewGauge(name string) (*Gauge, error) {
	m, err := c.handle(name)
	if err != nil {
		return nil, err
	}
	return &Gauge{m}, nil
}

// NewHistogram creates a named histogram metric handle.
func (c *HostMetrics) NewHistogram(name string) (*Histogram, error) {
	m, err := c.handle(name)
	if err != nil {
		return nil, err
	}
	return &Histogram{m}, nil
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	payload, err := (&proto.MetricsCounter{Name: c.name}).MarshalVT()
	c.send(fnCounter, payload, err)
}

// Inc increments the gauge by one.
func (g *Gauge) Inc() { g.emit(actionInc) }

// Dec decrements the gauge by one.
func (g *Gauge) Dec() { g.emit(actionDec) }

func (g *Gauge) emit(action string) {
	payload, err := (&proto.MetricsGauge{Name: g.name, Action: action}).MarshalVT()
	g.send(fnGauge, payload, err)
}

// Observe records a value for the histogram.
func (h *Histogram) Observe(value float64) {
	payload, err := (&proto.MetricsHistogram{Name: h.name, Value: value}).MarshalVT()
	h.send(fnHistogram, payload, err)
}

// Name joins parts with underscores and replaces characters that are not
// allowed in metric names, e.g. Name("users", "get-all", "requests") is
// "users_get_all_requests".
func Name(parts ...string) string {
	return invalidNameChars.ReplaceAllString(strings.Join(parts, "_"), "_")
}
