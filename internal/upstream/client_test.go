package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prestamos-admin/config"
	"prestamos-admin/internal/model"
)

const testBaseURL = "http://api.test/api"

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveRequest(op, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, op+":"+outcome)
}

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient(observer Observer) *Client {
	return NewClient(&config.UpstreamConfig{BaseURL: testBaseURL, Timeout: 2 * time.Second}, observer)
}

func TestListEquipment_Success(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/equipos/",
		httpmock.NewStringResponder(http.StatusOK, `{"status":"success","data":[{"code":"EQ1","nombre":"Proyector"},{"code":2,"nombre":"Laptop"}]}`))

	obs := &recordingObserver{}
	items, err := newTestClient(obs).ListEquipment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.Equipment{
		{Code: "EQ1", Nombre: "Proyector"},
		{Code: "2", Nombre: "Laptop"},
	}, items)
	assert.Equal(t, []string{"list_equipment:success"}, obs.calls)
}

func TestListLoans_NullDataIsEmpty(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/prestamos/",
		httpmock.NewStringResponder(http.StatusOK, `{"status":"success","data":null}`))

	loans, err := newTestClient(nil).ListLoans(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loans)
	assert.Empty(t, loans)
}

func TestEnvelopeFailures(t *testing.T) {
	tests := []struct {
		name       string
		httpStatus int
		body       string
		wantMsg    string
		wantFields []FieldError
	}{
		{
			name:       "field errors keep response order",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"error","message":{"solicitante":["Este campo es requerido."],"correo":["Correo inválido","Ya existe"]}}`,
			wantMsg:    "solicitante: Este campo es requerido.; correo: Correo inválido, Ya existe",
			wantFields: []FieldError{
				{Field: "solicitante", Errors: []string{"Este campo es requerido."}},
				{Field: "correo", Errors: []string{"Correo inválido", "Ya existe"}},
			},
		},
		{
			name:       "order is not alphabetical",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"error","message":{"zeta":["z"],"alfa":["a"]}}`,
			wantMsg:    "zeta: z; alfa: a",
			wantFields: []FieldError{
				{Field: "zeta", Errors: []string{"z"}},
				{Field: "alfa", Errors: []string{"a"}},
			},
		},
		{
			name:       "plain string message on HTTP 200",
			httpStatus: http.StatusOK,
			body:       `{"status":"error","message":"Equipo no disponible"}`,
			wantMsg:    "Equipo no disponible",
		},
		{
			name:       "missing message uses fallback",
			httpStatus: http.StatusInternalServerError,
			body:       `{"status":"fail"}`,
			wantMsg:    "Error en la solicitud",
		},
		{
			name:       "legacy errors member",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"fail","errors":"Datos inválidos"}`,
			wantMsg:    "Datos inválidos",
		},
		{
			name:       "empty field map",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"fail","message":{}}`,
			wantMsg:    "Error de validación",
		},
		{
			name:       "single string per field",
			httpStatus: http.StatusBadRequest,
			body:       `{"status":"fail","message":{"nombre":"obligatorio"}}`,
			wantMsg:    "nombre: obligatorio",
			wantFields: []FieldError{{Field: "nombre", Errors: []string{"obligatorio"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/prestamos/",
				httpmock.NewStringResponder(tt.httpStatus, tt.body))

			obs := &recordingObserver{}
			loan, err := newTestClient(obs).CreateLoan(context.Background(), model.LoanInput{Solicitante: "Ana"})
			require.Error(t, err)
			assert.Nil(t, loan)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantFields, apiErr.Fields)
			assert.Equal(t, tt.httpStatus, apiErr.HTTPStatus)
			assert.Equal(t, "create_loan", apiErr.Op)
			assert.Equal(t, []string{"create_loan:api_error"}, obs.calls)
		})
	}
}

func TestSuccessStatusWinsOverHTTPCode(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/prestamos/L1/",
		httpmock.NewStringResponder(http.StatusAccepted, `{"status":"success","data":{"code":"L1","estado":"ENTREGADO"}}`))

	loan, err := newTestClient(nil).GetLoan(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusEntregado, loan.Estado)
}

func TestUpdateLoanStatus_PatchesStatusEndpoint(t *testing.T) {
	setupHTTPMock(t)

	var gotBody string
	httpmock.RegisterResponder(http.MethodPatch, testBaseURL+"/prestamos/cambiar-estado/L5",
		func(req *http.Request) (*http.Response, error) {
			b, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			gotBody = string(b)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK,
				`{"status":"success","data":{"code":"L5","estado":"DEVUELTO","comentario":"ok"}}`), nil
		})

	loan, err := newTestClient(nil).UpdateLoanStatus(context.Background(), "L5",
		model.StatusUpdate{Estado: model.StatusDevuelto, Comentario: "ok"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"estado":"DEVUELTO","comentario":"ok"}`, gotBody)
	assert.Equal(t, model.StatusDevuelto, loan.Estado)
	assert.Equal(t, 1, httpmock.GetCallCountInfo()["PATCH "+testBaseURL+"/prestamos/cambiar-estado/L5"])
}

func TestLoanEndpoints(t *testing.T) {
	setupHTTPMock(t)
	ok := `{"status":"success","data":{"code":"L9"}}`
	httpmock.RegisterResponder(http.MethodPut, testBaseURL+"/prestamos/L9/", httpmock.NewStringResponder(http.StatusOK, ok))
	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/prestamos/L9/", httpmock.NewStringResponder(http.StatusOK, `{"status":"success","data":null,"message":"Eliminado"}`))
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/equipos/", httpmock.NewStringResponder(http.StatusCreated, `{"status":"success","data":{"code":"EQ7","nombre":"Cámara"}}`))

	c := newTestClient(nil)
	ctx := context.Background()

	loan, err := c.UpdateLoan(ctx, "L9", model.LoanInput{Estado: model.StatusEntregado})
	require.NoError(t, err)
	assert.Equal(t, model.Code("L9"), loan.Code)

	require.NoError(t, c.DeleteLoan(ctx, "L9"))

	eq, err := c.CreateEquipment(ctx, model.EquipmentInput{Nombre: "Cámara"})
	require.NoError(t, err)
	assert.Equal(t, model.Code("EQ7"), eq.Code)

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["PUT "+testBaseURL+"/prestamos/L9/"])
	assert.Equal(t, 1, info["DELETE "+testBaseURL+"/prestamos/L9/"])
	assert.Equal(t, 1, info["POST "+testBaseURL+"/equipos/"])
}

func TestMalformedBody(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/equipos/",
		httpmock.NewStringResponder(http.StatusBadGateway, `<html>bad gateway</html>`))

	obs := &recordingObserver{}
	_, err := newTestClient(obs).ListEquipment(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "list_equipment")
	assert.Equal(t, []string{"list_equipment:transport_error"}, obs.calls)
}

func TestEmptyBody(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodDelete, testBaseURL+"/prestamos/L1/",
		httpmock.NewStringResponder(http.StatusNoContent, ``))

	err := newTestClient(nil).DeleteLoan(context.Background(), "L1")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestRequestIDHeader(t *testing.T) {
	setupHTTPMock(t)

	var seen []string
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/equipos/",
		func(req *http.Request) (*http.Response, error) {
			seen = append(seen, req.Header.Get("X-Request-ID"))
			return httpmock.NewStringResponse(http.StatusOK, `{"status":"success","data":[]}`), nil
		})

	c := newTestClient(nil)
	_, err := c.ListEquipment(WithRequestID(context.Background(), "req-123"))
	require.NoError(t, err)
	_, err = c.ListEquipment(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, "req-123", seen[0])
	assert.NotEmpty(t, seen[1], "a request id is generated when none is attached")
}

func TestTimeoutCancelsRequest(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(&config.UpstreamConfig{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := c.ListLoans(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
