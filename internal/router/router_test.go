package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reptile-husbandry/internal/router"
)

func TestHTTP_EndToEnd_HusbandryFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Dos cuentas
	tokenA := registerAndLogin(t, ts.URL, "keeper.a", "password-a1")
	tokenB := registerAndLogin(t, ts.URL, "keeper.b", "password-b1")

	// 2) Sin token no hay acceso
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}

	// 3) A crea un animal
	animalID := createAnimal(t, ts.URL, tokenA, map[string]any{
		"name":       "Nagini",
		"species":    "ball_python",
		"morph":      "banana",
		"sex":        "female",
		"hatch_date": "2024-03-10",
	})

	// nombre duplicado para el mismo dueño => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals", tokenA, map[string]any{"name": "nagini"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate name, got %d", st)
		}
	}

	// 4) B no ve el animal de A: 404, nunca 403
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID, tokenB, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign animal, got %d", st)
		}
	}

	// 5) PATCH con null limpia la fecha
	{
		st, body := doReq(t, ts.URL, "PATCH", "/animals/"+animalID, tokenA, map[string]any{
			"hatch_date": nil,
			"notes":      "rescate",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch animal, got %d body=%s", st, string(body))
		}
		var resp struct {
			HatchDate *string `json:"hatch_date"`
			Notes     string  `json:"notes"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.HatchDate != nil {
			t.Fatalf("expected hatch_date cleared, got %v", *resp.HatchDate)
		}
		if resp.Notes != "rescate" {
			t.Fatalf("expected notes updated, got %q", resp.Notes)
		}
	}

	// 6) Alimentaciones
	feedingID := ""
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/feedings", tokenA, map[string]any{
			"fed_at":    time.Now().UTC().Format(time.RFC3339),
			"food_type": "mouse",
			"prey_size": "adult",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create feeding, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ID == "" {
			t.Fatalf("create feeding: missing id body=%s", string(body))
		}
		if resp.Quantity != 1 {
			t.Fatalf("expected default quantity 1, got %d", resp.Quantity)
		}
		feedingID = resp.ID
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/feedings", tokenA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list feedings, got %d body=%s", st, string(body))
		}
		var items []json.RawMessage
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 feeding, got %d", len(items))
		}
	}
	// B no llega a los registros del animal de A
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/feedings", tokenB, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 foreign feedings, got %d", st)
		}
	}
	// corregir el registro
	{
		st, body := doReq(t, ts.URL, "PATCH", "/animals/"+animalID+"/feedings/"+feedingID, tokenA, map[string]any{
			"refused": true,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch feeding, got %d body=%s", st, string(body))
		}
	}

	// 7) Mediciones: dos pesos, /latest devuelve el más reciente
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/measurements", tokenA, map[string]any{
			"kind":        "weight",
			"value":       1200,
			"measured_at": "2026-08-01T10:00:00Z",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create measurement, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/measurements", tokenA, map[string]any{
			"kind":        "weight",
			"value":       1250,
			"measured_at": "2026-08-15T10:00:00Z",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create measurement, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/measurements/latest", tokenA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 latest, got %d body=%s", st, string(body))
		}
		var items []struct {
			Kind  string  `json:"kind"`
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected 1 latest entry, got %d body=%s", len(items), string(body))
		}
		if items[0].Value != 1250 || items[0].Unit != "g" {
			t.Fatalf("expected latest weight 1250 g, got %#v", items[0])
		}
	}
	// validación de valores => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/measurements", tokenA, map[string]any{
			"kind":        "weight",
			"value":       0,
			"measured_at": "2026-08-15T10:00:00Z",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 zero weight, got %d", st)
		}
	}

	// 8) Reminders
	reminderID := ""
	{
		st, body := doReq(t, ts.URL, "POST", "/reminders", tokenA, map[string]any{
			"title":     "feed nagini",
			"animal_id": animalID,
			"due_at":    "2026-08-22T09:00:00Z",
			"repeat":    "weekly",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create reminder, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &resp)
		reminderID = resp.ID
	}
	// vincular a un animal ajeno => 404
	{
		st, _ := doReq(t, ts.URL, "POST", "/reminders", tokenB, map[string]any{
			"title":     "steal snake",
			"animal_id": animalID,
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 linking foreign animal, got %d", st)
		}
	}
	// B no puede completar el reminder de A
	{
		st, _ := doReq(t, ts.URL, "POST", "/reminders/"+reminderID+"/complete", tokenB, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 completing foreign reminder, got %d", st)
		}
	}
	// completar un repetitivo corre due_at y lo deja abierto
	{
		st, body := doReq(t, ts.URL, "POST", "/reminders/"+reminderID+"/complete", tokenA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 complete reminder, got %d body=%s", st, string(body))
		}
		var resp struct {
			Done  bool    `json:"done"`
			DueAt *string `json:"due_at"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Done {
			t.Fatalf("repeating reminder must stay open")
		}
		if resp.DueAt == nil {
			t.Fatalf("expected rolled due_at")
		}
	}

	// 9) Borrar el animal cascadea registros y desvincula el reminder
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/animals/"+animalID, tokenA, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete animal, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID, tokenA, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/"+animalID+"/feedings", tokenA, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 feedings after delete, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/reminders/"+reminderID, tokenA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected reminder to survive animal delete, got %d", st)
		}
		var resp struct {
			AnimalID *string `json:"animal_id"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.AnimalID != nil {
			t.Fatalf("expected reminder unlinked, got %v", *resp.AnimalID)
		}
	}

	// 10) Logout revoca el token
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/logout", tokenA, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 logout, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/auth/me", tokenA, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", st)
		}
	}
}

func TestHTTP_Register_Validation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// username inválido y password corto => 400 con detalle por campo
	st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"username": "Bad User!",
		"password": "short",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, string(body))
	}
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Fields["username"] == "" || resp.Fields["password"] == "" {
		t.Fatalf("expected field errors for username and password, got %s", string(body))
	}

	// username ya tomado => 409
	if _, st := register(t, ts.URL, "keeper", "password-ok1"); st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"username": "KEEPER",
		"password": "password-ok2",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 duplicate username, got %d", st)
	}
}

func TestHTTP_Login_BadCredentials(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if _, st := register(t, ts.URL, "keeper", "password-ok1"); st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d", st)
	}

	// password incorrecto y usuario inexistente responden igual
	st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"username": "keeper",
		"password": "wrongwrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 wrong password, got %d", st)
	}
	st, _ = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"username": "nobody",
		"password": "wrongwrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 unknown user, got %d", st)
	}
}

func register(t *testing.T, baseURL, username, password string) ([]byte, int) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/register", "", map[string]any{
		"username": username,
		"password": password,
	})
	return body, st
}

func registerAndLogin(t *testing.T, baseURL, username, password string) string {
	t.Helper()

	if _, st := register(t, baseURL, username, password); st != http.StatusCreated {
		t.Fatalf("expected 201 register %s, got %d", username, st)
	}

	st, body := doReq(t, baseURL, "POST", "/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login %s, got %d body=%s", username, st, string(body))
	}

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" {
		t.Fatalf("login %s: missing token body=%s", username, string(body))
	}
	return resp.Token
}

func createAnimal(t *testing.T, baseURL, token string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals", token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create animal: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
