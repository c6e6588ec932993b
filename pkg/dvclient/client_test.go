package dvclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-dvms/pkg/dvclient"

	"github.com/stretchr/testify/assert"
)

func TestClient_Login(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "juan@example.com", body["email"])

			json.NewEncoder(w).Encode(map[string]any{
				"ok": true,
				"data": map[string]any{
					"user":         map[string]any{"id": 7, "name": "Juan Clerk", "role": "clerk"},
					"access_token": "test-token",
					"token_type":   "Bearer",
				},
			})
		case "/me":
			// Login must install the token for subsequent calls.
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"ok":   true,
				"data": map[string]any{"id": 7, "name": "Juan Clerk", "role": "clerk"},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := dvclient.New(dvclient.WithBaseURL(srv.URL))

	result, err := client.Login(ctx, "juan@example.com", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, "test-token", result.AccessToken)
	assert.Equal(t, "clerk", result.User.Role)

	me, err := client.Me(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), me.ID)
}

func TestClient_ListDVs(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dvs", r.URL.Path)
		assert.Equal(t, "submitted", r.URL.Query().Get("status"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"data": []map[string]any{
				{"id": 16, "dv_number": "DV-2026-016", "status": "submitted", "amount": "100.00"},
			},
			"meta": map[string]any{"total": 20, "totalPages": 2, "page": 2, "pageSize": 15},
		})
	}))
	defer srv.Close()

	client := dvclient.New(dvclient.WithBaseURL(srv.URL), dvclient.WithToken("test-token"))

	page, err := client.ListDVs(ctx, dvclient.ListOptions{Status: "submitted", Page: 2})
	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "DV-2026-016", page.Items[0].DVNumber)
	assert.Equal(t, int64(20), page.Meta.Total)
	assert.Equal(t, 2, page.Meta.Page)
}

func TestClient_CreateDV_ValidationError(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    "VALIDATION_ERROR",
				"message": "The given data was invalid",
				"details": map[string]string{"dv_number": "Dv Number has already been taken"},
			},
		})
	}))
	defer srv.Close()

	client := dvclient.New(dvclient.WithBaseURL(srv.URL), dvclient.WithToken("test-token"))

	_, err := client.CreateDV(ctx, dvclient.CreateDVInput{
		DVNumber:    "DV-2026-001",
		DVDate:      "2026-03-15",
		Payee:       "Juan Dela Cruz",
		Particulars: "Office supplies",
		Amount:      "100",
	})

	var apiErr *dvclient.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "Dv Number has already been taken", apiErr.Details["dv_number"])
}

func TestClient_ApproveAndDisapprove(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dvs/5/approve":
			assert.Equal(t, http.MethodPost, r.Method)
			json.NewEncoder(w).Encode(map[string]any{
				"ok":   true,
				"data": map[string]any{"id": 5, "status": "approved", "approved_by": 11},
			})
		case "/dvs/5/disapprove":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Missing supporting documents", body["remarks"])
			json.NewEncoder(w).Encode(map[string]any{
				"ok":   true,
				"data": map[string]any{"id": 5, "status": "disapproved", "remarks": body["remarks"]},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := dvclient.New(dvclient.WithBaseURL(srv.URL), dvclient.WithToken("test-token"))

	d, err := client.ApproveDV(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, "approved", d.Status)
	if assert.NotNil(t, d.ApprovedBy) {
		assert.Equal(t, uint(11), *d.ApprovedBy)
	}

	d, err = client.DisapproveDV(ctx, 5, "Missing supporting documents")
	assert.NoError(t, err)
	assert.Equal(t, "disapproved", d.Status)
}

func TestClient_DeleteDV_NotFound(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": false,
			"error": map[string]any{
				"code":    "NOT_FOUND",
				"message": "DV not found",
			},
		})
	}))
	defer srv.Close()

	client := dvclient.New(dvclient.WithBaseURL(srv.URL), dvclient.WithToken("test-token"))

	err := client.DeleteDV(ctx, 99)
	var apiErr *dvclient.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestShowApprovalActions(t *testing.T) {
	cases := []struct {
		role, status string
		want         bool
	}{
		{"admin", "submitted", true},
		{"reviewer", "submitted", true},
		{"clerk", "submitted", false},
		{"admin", "draft", false},
		{"reviewer", "approved", false},
		{"", "submitted", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dvclient.ShowApprovalActions(tc.role, tc.status), "%s/%s", tc.role, tc.status)
	}
}
