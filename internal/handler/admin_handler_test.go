package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	fx := newAPIFixture(t, &scriptedAI{reply: gradedResponse}, 100)
	student := tokenFor(t, fx.student.ID, "student")

	resp, _ := fx.do(t, http.MethodGet, "/api/v2/admin/essays", student, nil, "")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = fx.do(t, http.MethodGet, "/api/v2/admin/essays", "", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListsAllEssays(t *testing.T) {
	fx := newAPIFixture(t, &scriptedAI{reply: gradedResponse}, 100)
	student := tokenFor(t, fx.student.ID, "student")

	resp, _ := fx.postJSON(t, "/api/v2/essays/evaluate", student, map[string]string{"essay": essayBody(450)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = fx.postJSON(t, "/api/v2/essays/evaluate", fx.adminTok, map[string]string{"essay": essayBody(650)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := fx.do(t, http.MethodGet, "/api/v2/admin/essays?source=ai", fx.adminTok, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, raw).Data, &page))
	require.Len(t, page.Items, 2)

	resp, _ = fx.do(t, http.MethodGet, "/api/v2/admin/essays?source=manual", fx.adminTok, nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminOverridesSubscription(t *testing.T) {
	fx := newAPIFixture(t, &scriptedAI{reply: gradedResponse}, 100)
	lapsed := tokenFor(t, fx.lapsed.ID, "student")
	path := fmt.Sprintf("/api/v2/admin/profiles/%d/subscription", fx.lapsed.ID)

	resp, _ := fx.postJSON(t, "/api/v2/essays/evaluate", lapsed, map[string]string{"essay": essayBody(500)})
	require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	patch := func(target string, payload interface{}) (*http.Response, envelope) {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		resp, raw := fx.do(t, http.MethodPatch, target, fx.adminTok, bytes.NewReader(encoded), fiber.MIMEApplicationJSON)
		return resp, decodeEnvelope(t, raw)
	}

	resp, env := patch(path, map[string]interface{}{"status": "active", "expires_at": time.Now().Add(48 * time.Hour).UTC()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(env.Data), `"can_check_essays":true`)

	resp, _ = fx.postJSON(t, "/api/v2/essays/evaluate", lapsed, map[string]string{"essay": essayBody(500)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = patch(path, map[string]string{"status": "forever"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "oneof", env.Details["status"])

	resp, _ = patch("/api/v2/admin/profiles/4242/subscription", map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
