package dv_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-dvms/internal/dv"
	dverrors "go-dvms/internal/dv/errors"
	"go-dvms/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeDVService struct {
	listFn       func(ctx context.Context, q dv.ListDVQuery) ([]dv.DVResponse, int64, error)
	createFn     func(ctx context.Context, actor dv.Identity, req dv.CreateDVRequest) (dv.DVResponse, error)
	getFn        func(ctx context.Context, id uint) (dv.DVResponse, error)
	updateFn     func(ctx context.Context, actor dv.Identity, id uint, req dv.UpdateDVRequest) (dv.DVResponse, error)
	deleteFn     func(ctx context.Context, id uint) error
	approveFn    func(ctx context.Context, actor dv.Identity, id uint) (dv.DVResponse, error)
	disapproveFn func(ctx context.Context, actor dv.Identity, id uint, remarks string) (dv.DVResponse, error)
}

func (f *fakeDVService) List(ctx context.Context, q dv.ListDVQuery) ([]dv.DVResponse, int64, error) {
	return f.listFn(ctx, q)
}
func (f *fakeDVService) Create(ctx context.Context, actor dv.Identity, req dv.CreateDVRequest) (dv.DVResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeDVService) Get(ctx context.Context, id uint) (dv.DVResponse, error) {
	return f.getFn(ctx, id)
}
func (f *fakeDVService) Update(ctx context.Context, actor dv.Identity, id uint, req dv.UpdateDVRequest) (dv.DVResponse, error) {
	return f.updateFn(ctx, actor, id, req)
}
func (f *fakeDVService) Delete(ctx context.Context, id uint) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeDVService) Approve(ctx context.Context, actor dv.Identity, id uint) (dv.DVResponse, error) {
	return f.approveFn(ctx, actor, id)
}
func (f *fakeDVService) Disapprove(ctx context.Context, actor dv.Identity, id uint, remarks string) (dv.DVResponse, error) {
	return f.disapproveFn(ctx, actor, id, remarks)
}

func newDVTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uint(7))
	c.Set("user_name", "Juan Clerk")
	c.Set("role", "clerk")
	return c, w
}

func TestDVHandler_Create(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		svc := &fakeDVService{
			createFn: func(ctx context.Context, actor dv.Identity, req dv.CreateDVRequest) (dv.DVResponse, error) {
				assert.Equal(t, uint(7), actor.ID)
				assert.Equal(t, "clerk", actor.Role)
				assert.Equal(t, "DV-2026-001", req.DVNumber)
				if assert.NotNil(t, req.Amount) {
					assert.Equal(t, "1500.5", req.Amount.String())
				}
				return dv.DVResponse{
					ID:       42,
					DVNumber: req.DVNumber,
					Status:   dv.StatusDraft,
					Amount:   "1500.50",
				}, nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodPost, "/dvs",
			`{"dv_number":"DV-2026-001","dv_date":"2026-03-15","payee":"Juan Dela Cruz","particulars":"Office supplies","amount":"1500.50"}`)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp dv.DVResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, uint(42), resp.ID)
		assert.Equal(t, dv.StatusDraft, resp.Status)
	})

	t.Run("negative missing fields return 422 with per-field details", func(t *testing.T) {
		h := dv.NewHandler(&fakeDVService{})
		c, w := newDVTestContext(t, http.MethodPost, "/dvs", `{"payee":"Juan Dela Cruz"}`)

		h.Create(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, apperror.CodeValidation, env.Error.Code)
			assert.Contains(t, env.Error.Details, "dv_number")
			assert.Contains(t, env.Error.Details, "dv_date")
			assert.Contains(t, env.Error.Details, "particulars")
			assert.Contains(t, env.Error.Details, "amount")
			assert.NotContains(t, env.Error.Details, "payee")
		}
	})

	t.Run("negative duplicate number surfaces service validation", func(t *testing.T) {
		svc := &fakeDVService{
			createFn: func(ctx context.Context, actor dv.Identity, req dv.CreateDVRequest) (dv.DVResponse, error) {
				return dv.DVResponse{}, apperror.Validation(map[string]string{
					"dv_number": dverrors.MsgDVNumberTaken,
				})
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodPost, "/dvs",
			`{"dv_number":"DV-2026-001","dv_date":"2026-03-15","payee":"Juan Dela Cruz","particulars":"Office supplies","amount":"100"}`)

		h.Create(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, dverrors.MsgDVNumberTaken, env.Error.Details["dv_number"])
		}
	})
}

func TestDVHandler_List(t *testing.T) {
	t.Run("success carries pagination meta", func(t *testing.T) {
		svc := &fakeDVService{
			listFn: func(ctx context.Context, q dv.ListDVQuery) ([]dv.DVResponse, int64, error) {
				assert.Equal(t, dv.StatusSubmitted, q.Status)
				assert.Equal(t, "juan", q.Search)
				assert.Equal(t, 2, q.Page)
				return []dv.DVResponse{{ID: 1}, {ID: 2}}, 20, nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodGet, "/dvs?status=submitted&search=juan&page=2", "")

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var env struct {
			Ok   bool            `json:"ok"`
			Data json.RawMessage `json:"data"`
			Meta struct {
				Total      int64 `json:"total"`
				TotalPages int   `json:"totalPages"`
				Page       int   `json:"page"`
				PageSize   int   `json:"pageSize"`
			} `json:"meta"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, int64(20), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)
		assert.Equal(t, 2, env.Meta.Page)
		assert.Equal(t, dv.PageSize, env.Meta.PageSize)
	})

	t.Run("malformed page falls back to 1", func(t *testing.T) {
		svc := &fakeDVService{
			listFn: func(ctx context.Context, q dv.ListDVQuery) ([]dv.DVResponse, int64, error) {
				assert.Equal(t, 1, q.Page)
				return nil, 0, nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodGet, "/dvs?page=abc", "")

		h.List(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDVHandler_Get(t *testing.T) {
	t.Run("negative unknown id returns 404", func(t *testing.T) {
		svc := &fakeDVService{
			getFn: func(ctx context.Context, id uint) (dv.DVResponse, error) {
				return dv.DVResponse{}, dverrors.ErrDVNotFound
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodGet, "/dvs/99", "")
		c.Params = gin.Params{{Key: "id", Value: "99"}}

		h.Get(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, apperror.CodeNotFound, env.Error.Code)
		}
	})

	t.Run("negative non-numeric id returns 404 without touching the service", func(t *testing.T) {
		h := dv.NewHandler(&fakeDVService{})
		c, w := newDVTestContext(t, http.MethodGet, "/dvs/abc", "")
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.Get(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDVHandler_Update(t *testing.T) {
	t.Run("success applies only provided fields", func(t *testing.T) {
		svc := &fakeDVService{
			updateFn: func(ctx context.Context, actor dv.Identity, id uint, req dv.UpdateDVRequest) (dv.DVResponse, error) {
				assert.Equal(t, uint(5), id)
				if assert.NotNil(t, req.Payee) {
					assert.Equal(t, "Maria Santos", *req.Payee)
				}
				assert.Nil(t, req.DVNumber)
				assert.Nil(t, req.Status)
				return dv.DVResponse{ID: 5, Payee: "Maria Santos"}, nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodPut, "/dvs/5", `{"payee":"Maria Santos"}`)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Update(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative forbidden transition returns 403", func(t *testing.T) {
		svc := &fakeDVService{
			updateFn: func(ctx context.Context, actor dv.Identity, id uint, req dv.UpdateDVRequest) (dv.DVResponse, error) {
				return dv.DVResponse{}, dverrors.ErrTransitionForbidden
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodPut, "/dvs/5", `{"status":"approved"}`)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Update(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, apperror.CodeForbidden, env.Error.Code)
		}
	})

	t.Run("negative invalid status literal fails binding", func(t *testing.T) {
		h := dv.NewHandler(&fakeDVService{})
		c, w := newDVTestContext(t, http.MethodPut, "/dvs/5", `{"status":"archived"}`)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Update(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Contains(t, env.Error.Details, "status")
		}
	})
}

func TestDVHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDVService{
			deleteFn: func(ctx context.Context, id uint) error {
				assert.Equal(t, uint(5), id)
				return nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodDelete, "/dvs/5", "")
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}

func TestDVHandler_Approve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDVService{
			approveFn: func(ctx context.Context, actor dv.Identity, id uint) (dv.DVResponse, error) {
				assert.Equal(t, uint(7), actor.ID)
				assert.Equal(t, uint(5), id)
				approver := actor.ID
				return dv.DVResponse{ID: 5, Status: dv.StatusApproved, ApprovedBy: &approver}, nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodPost, "/dvs/5/approve", "")
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var resp dv.DVResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, dv.StatusApproved, resp.Status)
	})
}

func TestDVHandler_Disapprove(t *testing.T) {
	t.Run("negative missing remarks fails binding", func(t *testing.T) {
		h := dv.NewHandler(&fakeDVService{})
		c, w := newDVTestContext(t, http.MethodPost, "/dvs/5/disapprove", `{}`)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Disapprove(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Contains(t, env.Error.Details, "remarks")
		}
	})

	t.Run("success passes remarks through", func(t *testing.T) {
		svc := &fakeDVService{
			disapproveFn: func(ctx context.Context, actor dv.Identity, id uint, remarks string) (dv.DVResponse, error) {
				assert.Equal(t, "Missing supporting documents", remarks)
				return dv.DVResponse{ID: 5, Status: dv.StatusDisapproved}, nil
			},
		}

		h := dv.NewHandler(svc)
		c, w := newDVTestContext(t, http.MethodPost, "/dvs/5/disapprove",
			`{"remarks":"Missing supporting documents"}`)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		h.Disapprove(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var resp dv.DVResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, dv.StatusDisapproved, resp.Status)
	})
}
