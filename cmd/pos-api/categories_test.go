package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
)

func TestCategories_CRUD(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)

	// POST válido ⇒ 201
	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	{
		w := e.do(http.MethodPost, "/categories", admin, jsonBody(map[string]string{"name": "Drinks"}))
		if w.Code != http.StatusCreated {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		if err := json.Unmarshal(decode(t, w).Data, &created); err != nil || created.ID == 0 {
			t.Fatalf("respuesta inesperada: %s", w.Body.String())
		}
	}

	// nombre duplicado ⇒ 400 con clave "name" y sin nuevo registro
	{
		w := e.do(http.MethodPost, "/categories", admin, jsonBody(map[string]string{"name": "Drinks"}))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("esperaba 400, got %d body=%s", w.Code, w.Body.String())
		}
		if env := decode(t, w); len(env.Errors["name"]) == 0 {
			t.Fatalf("esperaba error en name: %+v", env.Errors)
		}
		if len(e.s.categories) != 1 {
			t.Fatalf("no debió crearse otra categoría: %d", len(e.s.categories))
		}
	}

	// lectura pública
	{
		w := e.do(http.MethodGet, fmt.Sprintf("/categories/%d", created.ID), "", body{})
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}

	// PUT con el mismo nombre (excluye a sí misma) ⇒ 200
	{
		w := e.do(http.MethodPut, fmt.Sprintf("/categories/%d", created.ID), admin, jsonBody(map[string]string{"name": "Drinks"}))
		if w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
	}

	// PUT inexistente ⇒ 404
	{
		w := e.do(http.MethodPut, "/categories/999", admin, jsonBody(map[string]string{"name": "X"}))
		if w.Code != http.StatusNotFound {
			t.Fatalf("esperaba 404, got %d body=%s", w.Code, w.Body.String())
		}
	}

	// DELETE ⇒ 200, luego 404
	{
		path := fmt.Sprintf("/categories/%d", created.ID)
		if w := e.do(http.MethodDelete, path, admin, body{}); w.Code != http.StatusOK {
			t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
		}
		if w := e.do(http.MethodGet, path, "", body{}); w.Code != http.StatusNotFound {
			t.Fatalf("esperaba 404 tras borrar, got %d", w.Code)
		}
	}

	// id no numérico ⇒ 404
	if w := e.do(http.MethodGet, "/categories/abc", "", body{}); w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404 por id inválido, got %d", w.Code)
	}
}

func TestCategories_ListPaginated(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	for i := 1; i <= 12; i++ {
		w := e.do(http.MethodPost, "/categories", admin, jsonBody(map[string]string{"name": fmt.Sprintf("Cat %02d", i)}))
		if w.Code != http.StatusCreated {
			t.Fatalf("seed status=%d", w.Code)
		}
	}

	w := e.do(http.MethodGet, "/categories?page=2", "", body{})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	var items []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len=%d, esperado=2", len(items))
	}
	m := env.Meta
	if m == nil || m.CurrentPage != 2 || m.PerPage != 10 || m.Total != 12 || m.LastPage != 2 || *m.From != 11 || *m.To != 12 {
		t.Fatalf("meta inesperada: %+v", m)
	}
}
