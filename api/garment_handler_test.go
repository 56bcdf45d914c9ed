package api

import (
	"net/http"
	"testing"
)

func createGarmentViaAPI(t *testing.T, env *testEnv, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/garments", token, body)
	expectStatus(t, rec, http.StatusCreated)
	var g map[string]interface{}
	decodeBody(t, rec, &g)
	return g
}

func TestCreateGarment(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register(t, "Ada", "ada@example.com")

	g := createGarmentViaAPI(t, env, token, map[string]interface{}{
		"type": "shirt", "name": "Tee", "gender": "unisex",
		"created_by": "someone-else", "created_at": "2001-01-01T00:00:00Z",
	})
	if g["created_by"] != userID {
		t.Errorf("created_by = %v, want caller %s", g["created_by"], userID)
	}
	if g["sleeve_type"] != "short" || g["pattern"] != "solid" || g["color"] != nil {
		t.Errorf("defaults not applied: %v", g)
	}
	if id, _ := g["id"].(string); len(id) != 24 {
		t.Errorf("id = %v", g["id"])
	}
	if created, _ := g["created_at"].(string); created == "" || created[:4] == "2001" {
		t.Errorf("created_at = %v, want server time", g["created_at"])
	}

	tests := []struct {
		name  string
		token string
		body  map[string]interface{}
		want  int
	}{
		{"no token", "", map[string]interface{}{"type": "hat"}, http.StatusUnauthorized},
		{"missing type", token, map[string]interface{}{"name": "Mystery"}, http.StatusBadRequest},
		{"unknown type", token, map[string]interface{}{"type": "scarf"}, http.StatusBadRequest},
		{"bad gender", token, map[string]interface{}{"type": "hat", "gender": "other"}, http.StatusBadRequest},
		{"bad color", token, map[string]interface{}{"type": "pants", "color": 12}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/garments", tc.token, tc.body)
			expectStatus(t, rec, tc.want)
		})
	}
}

func TestListGarments(t *testing.T) {
	env := newTestEnv(t)
	adaToken, adaID := env.register(t, "Ada", "ada@example.com")
	bobToken, _ := env.register(t, "Bob", "bob@example.com")

	createGarmentViaAPI(t, env, adaToken, map[string]interface{}{"type": "shirt", "gender": "female"})
	createGarmentViaAPI(t, env, adaToken, map[string]interface{}{"type": "hat"})
	createGarmentViaAPI(t, env, bobToken, map[string]interface{}{"type": "shirt", "gender": "male"})

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?type=shirt", 2},
		{"?type=shirt&gender=male", 1},
		{"?type=shoes", 0},
		{"?creator_id=" + adaID, 2},
		{"?creator_id=" + adaID + "&type=shoes", 2},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/garments"+tc.query, "", nil)
			expectStatus(t, rec, http.StatusOK)
			var list []map[string]interface{}
			decodeBody(t, rec, &list)
			if len(list) != tc.want {
				t.Errorf("got %d garments, want %d", len(list), tc.want)
			}
		})
	}

	rec := env.do(t, http.MethodGet, "/api/garments?type=scarf", "", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestGarmentOwnership(t *testing.T) {
	env := newTestEnv(t)
	adaToken, _ := env.register(t, "Ada", "ada@example.com")
	bobToken, _ := env.register(t, "Bob", "bob@example.com")

	g := createGarmentViaAPI(t, env, adaToken, map[string]interface{}{"type": "pants", "name": "Cargo"})
	path := "/api/garments/" + g["id"].(string)

	rec := env.do(t, http.MethodGet, path, "", nil)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodPut, path, bobToken, map[string]interface{}{"name": "Mine now"})
	expectStatus(t, rec, http.StatusForbidden)
	rec = env.do(t, http.MethodDelete, path, bobToken, nil)
	expectStatus(t, rec, http.StatusForbidden)

	rec = env.do(t, http.MethodPut, path, adaToken, map[string]interface{}{
		"name": "Wide Cargo", "fit": "baggy", "type": "shirt", "created_by": "bob",
	})
	expectStatus(t, rec, http.StatusOK)
	var updated map[string]interface{}
	decodeBody(t, rec, &updated)
	if updated["name"] != "Wide Cargo" || updated["fit"] != "baggy" {
		t.Errorf("update not applied: %v", updated)
	}
	if updated["type"] != "pants" || updated["created_by"] != g["created_by"] {
		t.Errorf("immutable fields changed: %v", updated)
	}

	rec = env.do(t, http.MethodPut, path, adaToken, map[string]interface{}{"type": "shirt"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodDelete, path, adaToken, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodGet, path, "", nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = env.do(t, http.MethodDelete, path, adaToken, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec = env.do(t, http.MethodGet, "/api/garments/not-an-id", "", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestGarmentStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.db.SetFailure(errTest)
	rec := env.do(t, http.MethodGet, "/api/garments", "", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
}
