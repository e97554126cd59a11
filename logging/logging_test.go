package logging

import (
	"errors"
	"reflect"
	"testing"

	resourcemock "github.com/tarmac-project/resourcemock"
	"github.com/tarmac-project/resourcemock/hostmock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	customHostCall := func(string, string, string, []byte) ([]byte, error) {
		return nil, nil
	}

	tt := []struct {
		name        string
		namespace   string
		hostCall    resourcemock.HostCall
		wantNS      string
		wantHostPtr uintptr
	}{
		{
			name:      "custom namespace",
			namespace: "custom",
			wantNS:    "custom",
		},
		{
			name:        "default namespace with override",
			hostCall:    customHostCall,
			wantNS:      resourcemock.DefaultNamespace,
			wantHostPtr: reflect.ValueOf(customHostCall).Pointer(),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(Config{SDKConfig: resourcemock.RuntimeConfig{Namespace: tc.namespace}, HostCall: tc.hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			impl, ok := c.(*client)
			if !ok {
				t.Fatalf("expected *client implementation, got %T", c)
			}

			if impl.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, impl.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(impl.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestClientLevels(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name string
		call func(Client)
	}{
		{"Info", func(c Client) { c.Info("msg") }},
		{"Warn", func(c Client) { c.Warn("msg") }},
		{"Error", func(c Client) { c.Error("msg") }},
		{"Debug", func(c Client) { c.Debug("msg") }},
		{"Trace", func(c Client) { c.Trace("msg") }},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mock, err := hostmock.New(hostmock.Config{
				ExpectedNamespace:  resourcemock.DefaultNamespace,
				ExpectedCapability: capabilityName,
				ExpectedFunction:   tc.name,
				PayloadValidator: func(p []byte) error {
					if string(p) != "msg" {
						return errors.New("payload mismatch")
					}
					return nil
				},
			})
			if err != nil {
				t.Fatalf("failed to create hostmock: %v", err)
			}

			c, err := New(Config{HostCall: mock.HostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			tc.call(c)

			calls := mock.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 host call, got %d", len(calls))
			}
			if calls[0].Function != tc.name {
				t.Errorf("function mismatch: want %q, got %q", tc.name, calls[0].Function)
			}
		})
	}
}

func TestHostFailureIsIgnored(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{Fail: true})
	if err != nil {
		t.Fatalf("failed to create hostmock: %v", err)
	}

	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	// Must not panic.
	c.Error("host is down")
	Discard.Error("dropped")

	if got := len(mock.Calls()); got != 1 {
		t.Fatalf("expected 1 host call, got %d", got)
	}
}
