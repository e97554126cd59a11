package resourcemock

import "testing"

func TestRuntimeConfigWithDefaults(t *testing.T) {
	testCases := []struct {
		name      string
		namespace string
		wantNs    string
	}{
		{name: "Empty Namespace", namespace: "", wantNs: DefaultNamespace},
		{name: "Custom Namespace", namespace: "custom", wantNs: "custom"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := RuntimeConfig{Namespace: tc.namespace}
			got := cfg.WithDefaults()
			if got.Namespace != tc.wantNs {
				t.Errorf("expected namespace %q, got %q", tc.wantNs, got.Namespace)
			}
			if cfg.Namespace != tc.namespace {
				t.Errorf("expected original namespace to remain %q, got %q", tc.namespace, cfg.Namespace)
			}
		})
	}
}
