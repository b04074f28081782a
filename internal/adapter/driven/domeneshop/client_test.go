package domeneshop_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domenectl/domenectl/internal/adapter/driven/domeneshop"
	"github.com/domenectl/domenectl/internal/domain/model"
)

func testCreds() model.Credentials {
	return model.Credentials{Token: "tok", Secret: "sec", Source: model.SourceEnvironment}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *domeneshop.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return domeneshop.NewClientWithBaseURL(srv.Client(), srv.URL, testCreds())
}

func TestDomains_SendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Domains(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "tok", gotUser)
	assert.Equal(t, "sec", gotPass)
}

func TestDomains_FilterBecomesQueryParameter(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("domain")
		_, _ = w.Write([]byte(`[{"id": 1, "domain": "example.no"}]`))
	})

	domains, err := client.Domains(context.Background(), ".no")
	require.NoError(t, err)
	assert.Equal(t, ".no", gotQuery)
	require.Len(t, domains, 1)
	assert.Equal(t, "example.no", domains[0].Name)
}

func TestDomains_EmptyBodyYieldsEmptySlice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	domains, err := client.Domains(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, domains)
	assert.Empty(t, domains)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind model.ErrorKind
	}{
		{"401 -> auth_rejected", http.StatusUnauthorized, "", model.KindAuthRejected},
		{"403 -> auth_rejected", http.StatusForbidden, "", model.KindAuthRejected},
		{"400 -> validation_failed", http.StatusBadRequest, `{"code":"invalid_record","help":"TTL out of range"}`, model.KindValidation},
		{"404 -> validation_failed", http.StatusNotFound, `{"code":"not_found","help":"domain not found"}`, model.KindValidation},
		{"500 -> remote_unavailable", http.StatusInternalServerError, "", model.KindRemoteUnavailable},
		{"503 -> remote_unavailable", http.StatusServiceUnavailable, "", model.KindRemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Domains(context.Background(), "")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, model.KindOf(err))
			assert.Equal(t, tt.status, model.StatusOf(err))
		})
	}
}

func TestErrorIncludesRemoteHelpText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"invalid_record","help":"TTL out of range"}`))
	})

	_, err := client.Domains(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_record")
	assert.Contains(t, err.Error(), "TTL out of range")
}

func TestConnectionRefusedIsRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := domeneshop.NewClientWithBaseURL(http.DefaultClient, url, testCreds())
	_, err := client.Domains(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, model.KindRemoteUnavailable, model.KindOf(err))
}

func TestCreateDNSRecord_ReturnsNewID(t *testing.T) {
	var gotPath string
	var gotBody model.DNSRecord
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42}`))
	})

	rec := model.DNSRecord{Type: model.RecordA, Host: "www", Data: "192.0.2.1", TTL: 3600}
	id, err := client.CreateDNSRecord(context.Background(), 7, rec)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "/domains/7/dns", gotPath)
	assert.Equal(t, "www", gotBody.Host)
	assert.Equal(t, model.RecordA, gotBody.Type)
}

func TestCreateDNSRecord_OmitsUnsetOptionalFields(t *testing.T) {
	var raw map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"id": 1}`))
	})

	rec := model.DNSRecord{Type: model.RecordA, Host: "www", Data: "192.0.2.1"}
	_, err := client.CreateDNSRecord(context.Background(), 7, rec)
	require.NoError(t, err)
	assert.NotContains(t, raw, "priority")
	assert.NotContains(t, raw, "weight")
	assert.NotContains(t, raw, "port")
	assert.NotContains(t, raw, "id")
}

func TestUpdateDNSRecord_PutsFullRecord(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	rec := model.DNSRecord{Type: model.RecordA, Host: "www", Data: "192.0.2.2"}
	err := client.UpdateDNSRecord(context.Background(), 7, 42, rec)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/domains/7/dns/42", gotPath)
}

func TestDeleteDNSRecord_NoContentIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteDNSRecord(context.Background(), 7, 42))
}

func TestForward_HostIsPathEscaped(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"host":"www","url":"https://example.com","frame":false}`))
	})

	fwd, err := client.Forward(context.Background(), 7, "www")
	require.NoError(t, err)
	assert.Equal(t, "/domains/7/forwards/www", gotPath)
	assert.Equal(t, "https://example.com", fwd.URL)
}

func TestInvoices_StatusFilter(t *testing.T) {
	var gotStatus string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		_, _ = w.Write([]byte(`[{"id": 3, "status": "unpaid", "amount": 120.5, "currency": "NOK"}]`))
	})

	invoices, err := client.Invoices(context.Background(), "unpaid")
	require.NoError(t, err)
	assert.Equal(t, "unpaid", gotStatus)
	require.Len(t, invoices, 1)
	assert.Equal(t, 120.5, invoices[0].Amount)
}

func TestUpdateDynDNS_IsGetWithQueryParameters(t *testing.T) {
	var gotMethod, gotHostname, gotMyIP string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHostname = r.URL.Query().Get("hostname")
		gotMyIP = r.URL.Query().Get("myip")
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdateDynDNS(context.Background(), "home.example.no", "192.0.2.1,2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "home.example.no", gotHostname)
	assert.Equal(t, "192.0.2.1,2001:db8::1", gotMyIP)
}
