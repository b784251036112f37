//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const (
	fakeUsername = "administrator@vsphere.local"
	fakePassword = "integration-pass"
)

type fakeRecord = map[string]string

// newFakeVCenter serves a small two-cluster inventory over the vCenter REST
// list endpoints, honouring the clusters and resource_pools filters.
func newFakeVCenter(t *testing.T) *httptest.Server {
	t.Helper()

	clusters := []fakeRecord{
		{"cluster": "domain-c1", "name": "Prod-Cluster"},
		{"cluster": "domain-c2", "name": "Dev-Cluster"},
	}
	pools := []fakeRecord{
		{"resource_pool": "resgroup-1", "name": "Prod-Pool", "cluster": "domain-c1"},
		{"resource_pool": "resgroup-2", "name": "Dev-Pool", "cluster": "domain-c2"},
	}
	vms := []fakeRecord{
		{"vm": "vm-1", "name": "web-01", "power_state": "POWERED_ON", "cluster": "domain-c1", "resource_pool": "resgroup-1"},
		{"vm": "vm-2", "name": "db-01", "power_state": "POWERED_OFF", "cluster": "domain-c1", "resource_pool": "resgroup-1"},
		{"vm": "vm-3", "name": "ci-runner", "power_state": "POWERED_ON", "cluster": "domain-c2", "resource_pool": "resgroup-2"},
	}

	filter := func(records []fakeRecord, r *http.Request) []fakeRecord {
		out := []fakeRecord{}
		for _, rec := range records {
			if c := r.URL.Query().Get("clusters"); c != "" && rec["cluster"] != c {
				continue
			}
			if p := r.URL.Query().Get("resource_pools"); p != "" && rec["resource_pool"] != p {
				continue
			}
			out = append(out, rec)
		}
		return out
	}

	list := func(records []fakeRecord) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != fakeUsername || pass != fakePassword {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"value": filter(records, r)})
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/vcenter/cluster", list(clusters))
	mux.HandleFunc("/rest/vcenter/resource-pool", list(pools))
	mux.HandleFunc("/rest/vcenter/vm", list(vms))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
