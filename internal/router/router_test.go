package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-adoption-api/internal/router"
)

const testSecret = "test-secret"

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{JWTSecret: testSecret}))
	defer ts.Close()

	// 1) Registro
	{
		st, body := doJSON(t, ts.URL, "POST", "/api/users/register", "", map[string]any{
			"username": "a",
			"email":    "a@x.com",
			"password": "secret1",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 register, got %d body=%s", st, body)
		}
		var resp struct {
			NewUser map[string]any `json:"newUser"`
		}
		mustUnmarshal(t, body, &resp)
		if _, leaked := resp.NewUser["password"]; leaked {
			t.Fatalf("register response leaks password: %s", body)
		}
	}

	// 2) Registro duplicado => 400
	{
		st, body := doJSON(t, ts.URL, "POST", "/api/users/register", "", map[string]any{
			"username": "b",
			"email":    "a@x.com",
			"password": "secret1",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 duplicate register, got %d", st)
		}
		if msg := messageOf(t, body); msg != "User already exists" {
			t.Fatalf("unexpected duplicate message %q", msg)
		}
	}

	// 3) Login
	token := login(t, ts.URL, "a@x.com", "secret1")

	// 4) Crear sin token => 401 y nada persistido
	{
		st, _ := doMultipart(t, ts.URL, "POST", "/api/pets/add", "", petFields("Rex"), nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 unauthenticated create, got %d", st)
		}
		if n := countPets(t, ts.URL); n != 0 {
			t.Fatalf("unauthenticated create persisted something: %d pets", n)
		}
	}

	// 5) Token basura => 401
	{
		st, _ := doMultipart(t, ts.URL, "POST", "/api/pets/add", "garbage", petFields("Rex"), nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad token, got %d", st)
		}
	}

	// 6) Crear sin archivos: status default y images vacío
	rexID := ""
	{
		st, body := doMultipart(t, ts.URL, "POST", "/api/pets/add", token, petFields("Rex"), nil)
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create, got %d body=%s", st, body)
		}
		pet := petOf(t, body)
		rexID, _ = pet["id"].(string)
		if rexID == "" {
			t.Fatalf("create: missing pet id body=%s", body)
		}
		if pet["adoptionStatus"] != "available" {
			t.Fatalf("expected default adoptionStatus available, got %v", pet["adoptionStatus"])
		}
		if imgs := imageURLs(pet); len(imgs) != 0 {
			t.Fatalf("expected empty images, got %v", imgs)
		}
	}

	// 7) Round-trip por id
	{
		st, body := doJSON(t, ts.URL, "GET", "/api/pets/"+rexID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get pet, got %d", st)
		}
		var pet map[string]any
		mustUnmarshal(t, body, &pet)
		if pet["name"] != "Rex" || pet["age"] != float64(2) || pet["type"] != "Dog" {
			t.Fatalf("round-trip mismatch: %s", body)
		}
	}

	// 8) Id bogus => 404 con mensaje estable
	{
		st, body := doJSON(t, ts.URL, "GET", "/api/pets/not-a-valid-id", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 bogus id, got %d", st)
		}
		if msg := messageOf(t, body); msg != "Pet not found" {
			t.Fatalf("unexpected 404 message %q", msg)
		}
	}

	// 9) Crear con archivos: N imágenes en orden de entrada
	lunaID := ""
	{
		st, body := doMultipart(t, ts.URL, "POST", "/api/pets/add", token, petFields("Luna"), []testFile{
			{"front.png", "png-bytes"},
			{"side.jpg", "jpg-bytes"},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create with files, got %d body=%s", st, body)
		}
		pet := petOf(t, body)
		lunaID, _ = pet["id"].(string)
		imgs := imageURLs(pet)
		want := []string{"memory://pets/front", "memory://pets/side"}
		if len(imgs) != 2 || imgs[0] != want[0] || imgs[1] != want[1] {
			t.Fatalf("expected ordered images %v, got %v", want, imgs)
		}
	}

	// 10) Update sin archivos no toca images
	{
		st, body := doMultipart(t, ts.URL, "PUT", "/api/pets/update/"+lunaID, token, petFields("Luna Updated"), nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, body)
		}
		pet := petOf(t, body)
		if pet["name"] != "Luna Updated" {
			t.Fatalf("update did not apply name: %s", body)
		}
		if imgs := imageURLs(pet); len(imgs) != 2 {
			t.Fatalf("update without files changed images: %v", imgs)
		}
	}

	// 11) Update con archivo nuevo reemplaza el set completo
	{
		st, body := doMultipart(t, ts.URL, "PUT", "/api/pets/update/"+lunaID, token, petFields("Luna Updated"), []testFile{
			{"new.jpg", "new-bytes"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update with files, got %d body=%s", st, body)
		}
		imgs := imageURLs(petOf(t, body))
		if len(imgs) != 1 || imgs[0] != "memory://pets/new" {
			t.Fatalf("expected images replaced by [memory://pets/new], got %v", imgs)
		}
	}

	// 12) Update sin birthDate falla igual que create
	{
		fields := petFields("Luna Updated")
		delete(fields, "birthDate")
		st, _ := doMultipart(t, ts.URL, "PUT", "/api/pets/update/"+lunaID, token, fields, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 update without birthDate, got %d", st)
		}
	}

	// 13) Delete sin token => 401 y el doc sigue
	{
		st, _ := doJSON(t, ts.URL, "DELETE", "/api/pets/delete/"+lunaID, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 unauthenticated delete, got %d", st)
		}
		if n := countPets(t, ts.URL); n != 2 {
			t.Fatalf("unauthenticated delete mutated the store: %d pets", n)
		}
	}

	// 14) Delete y delete repetido => 404 siempre
	{
		st, _ := doJSON(t, ts.URL, "DELETE", "/api/pets/delete/"+lunaID, token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d", st)
		}
		st, _ = doJSON(t, ts.URL, "DELETE", "/api/pets/delete/"+lunaID, token, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 repeated delete, got %d", st)
		}
		st, _ = doJSON(t, ts.URL, "GET", "/api/pets/"+lunaID, "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 get after delete, got %d", st)
		}
	}
}

func TestHTTP_Register_Validation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{JWTSecret: testSecret}))
	defer ts.Close()

	// password corto
	st, body := doJSON(t, ts.URL, "POST", "/api/users/register", "", map[string]any{
		"username": "a",
		"email":    "a@x.com",
		"password": "12345",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 short password, got %d", st)
	}
	if msg := messageOf(t, body); msg != "Password must be at least 6 characters long" {
		t.Fatalf("unexpected message %q", msg)
	}

	// campos faltantes
	st, body = doJSON(t, ts.URL, "POST", "/api/users/register", "", map[string]any{
		"email": "a@x.com",
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 missing fields, got %d", st)
	}
	if msg := messageOf(t, body); msg != "All fields are required" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestHTTP_Login_Failures(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{JWTSecret: testSecret}))
	defer ts.Close()

	st, body := doJSON(t, ts.URL, "POST", "/api/users/register", "", map[string]any{
		"username": "a",
		"email":    "a@x.com",
		"password": "secret1",
	})
	if st != http.StatusCreated {
		t.Fatalf("register failed: %d body=%s", st, body)
	}

	st, body = doJSON(t, ts.URL, "POST", "/api/users/login", "", map[string]any{
		"email":    "nobody@x.com",
		"password": "secret1",
	})
	if st != http.StatusUnauthorized || messageOf(t, body) != "User not found" {
		t.Fatalf("expected 401 User not found, got %d body=%s", st, body)
	}

	st, body = doJSON(t, ts.URL, "POST", "/api/users/login", "", map[string]any{
		"email":    "a@x.com",
		"password": "wrongpass",
	})
	if st != http.StatusUnauthorized || messageOf(t, body) != "Invalid email or password" {
		t.Fatalf("expected 401 Invalid email or password, got %d body=%s", st, body)
	}
}

func TestHTTP_Guard_MalformedHeader(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{JWTSecret: testSecret}))
	defer ts.Close()

	req, err := http.NewRequest("DELETE", ts.URL+"/api/pets/delete/whatever", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Token abc") // sin prefijo Bearer
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 malformed header, got %d", resp.StatusCode)
	}
}

func TestHTTP_Guard_FailsClosedWithoutSecret(t *testing.T) {
	// Sin secreto no hay verifier: las rutas mutantes responden 500,
	// nunca dejan pasar.
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, _ := doMultipart(t, ts.URL, "POST", "/api/pets/add", "whatever", petFields("Rex"), nil)
	if st != http.StatusInternalServerError {
		t.Fatalf("expected 500 with missing secret, got %d", st)
	}

	// Las lecturas públicas siguen funcionando
	st, _ = doJSON(t, ts.URL, "GET", "/api/pets/all", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 public list, got %d", st)
	}
}

type testFile struct {
	name    string
	content string
}

func petFields(name string) map[string]string {
	return map[string]string{
		"name":      name,
		"age":       "2",
		"type":      "Dog",
		"breed":     "mixed",
		"tags":      "friendly, calm",
		"birthDate": "2022-01-01",
	}
}

func login(t *testing.T, baseURL, email, password string) string {
	t.Helper()

	st, body := doJSON(t, baseURL, "POST", "/api/users/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("login failed: %d body=%s", st, body)
	}

	var resp struct {
		Token string `json:"token"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.Token == "" {
		t.Fatalf("login: missing token body=%s", body)
	}
	return resp.Token
}

func countPets(t *testing.T, baseURL string) int {
	t.Helper()

	st, body := doJSON(t, baseURL, "GET", "/api/pets/all", "", nil)
	if st != http.StatusOK {
		t.Fatalf("list pets failed: %d body=%s", st, body)
	}
	var items []map[string]any
	mustUnmarshal(t, body, &items)
	return len(items)
}

func doJSON(t *testing.T, baseURL, method, path, token string, payload map[string]any) (int, []byte) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		t.Fatal(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, body
}

func doMultipart(t *testing.T, baseURL, method, path, token string, fields map[string]string, files []testFile) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("images", f.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, body
}

func petOf(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var resp struct {
		Pet map[string]any `json:"pet"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.Pet == nil {
		t.Fatalf("response without pet: %s", body)
	}
	return resp.Pet
}

func imageURLs(pet map[string]any) []string {
	raw, _ := pet["images"].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func messageOf(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		Message string `json:"message"`
	}
	mustUnmarshal(t, body, &resp)
	return resp.Message
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()

	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("invalid json %q: %v", body, err)
	}
}
