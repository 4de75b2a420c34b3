package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"labstock/internal/ai"
	"labstock/internal/inventory"
)

func withAIClient(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := ai.NewClient(ai.Config{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	previous := openAIClient
	ConfigureAI(client)
	t.Cleanup(func() { ConfigureAI(previous) })
}

func replyWith(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}
}

const ethanolProfile = `{"name":"Ethanol","formula":"C2H6O","cas_number":"64-17-5","category":"dung môi","state":"liquid","nfpa_health":2,"nfpa_flammability":3,"nfpa_instability":0,"nfpa_special":"","ghs_pictograms":["GHS02","GHS07"]}`

func TestAILookupReturnsProfile(t *testing.T) {
	f := newAPIFixture(t)
	withAIClient(t, replyWith(ethanolProfile))

	w := f.call(t, AILookup, f.staff, http.MethodPost, "/app/api/ai/lookup", map[string]string{"name": "ethanol"})
	expectStatus(t, w, http.StatusOK)

	profile := decodeBody[ai.Profile](t, w)
	if profile.Name != "Ethanol" || profile.CASNumber != "64-17-5" || profile.Category != "Solvents" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if profile.NFPA.Flammability != 3 {
		t.Fatalf("expected flammability 3, got %+v", profile.NFPA)
	}

	if n := len(f.ws.Chemicals(inventory.Query{})); n != 0 {
		t.Fatalf("expected lookup not to store anything, got %d chemicals", n)
	}
}

func TestAIEndpointsRequireEditorAndClient(t *testing.T) {
	f := newAPIFixture(t)
	previous := openAIClient
	ConfigureAI(nil)
	t.Cleanup(func() { ConfigureAI(previous) })

	w := f.call(t, AILookup, f.staff, http.MethodPost, "/app/api/ai/lookup", map[string]string{"name": "ethanol"})
	expectStatus(t, w, http.StatusServiceUnavailable)
	if !strings.Contains(w.Body.String(), "AI_API_KEY") {
		t.Fatalf("expected configuration hint, got %s", w.Body.String())
	}

	withAIClient(t, replyWith(ethanolProfile))

	w = f.call(t, AILookup, f.viewer, http.MethodPost, "/app/api/ai/lookup", map[string]string{"name": "ethanol"})
	expectStatus(t, w, http.StatusForbidden)

	w = f.call(t, AILookup, f.staff, http.MethodGet, "/app/api/ai/lookup", nil)
	expectStatus(t, w, http.StatusMethodNotAllowed)

	w = f.call(t, AILookup, f.staff, http.MethodPost, "/app/api/ai/lookup", map[string]string{"name": "  "})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestAISafetyAdvice(t *testing.T) {
	f := newAPIFixture(t)
	withAIClient(t, replyWith("Wear nitrile gloves. Keep away from open flames."))

	w := f.call(t, AISafety, f.admin, http.MethodPost, "/app/api/ai/safety", map[string]string{"name": "Ethanol", "formula": "C2H6O"})
	expectStatus(t, w, http.StatusOK)

	resp := decodeBody[safetyResponse](t, w)
	if resp.Name != "Ethanol" || !strings.Contains(resp.Advice, "nitrile") {
		t.Fatalf("unexpected advice %+v", resp)
	}
}

func TestAIQuotaMapsToTooManyRequests(t *testing.T) {
	f := newAPIFixture(t)
	withAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	})

	w := f.call(t, AILookup, f.staff, http.MethodPost, "/app/api/ai/lookup", map[string]string{"name": "ethanol"})
	expectStatus(t, w, http.StatusTooManyRequests)
}

func TestAISDSExtractsFromTextUpload(t *testing.T) {
	f := newAPIFixture(t)
	var prompt string
	withAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Messages) > 0 {
			prompt = body.Messages[len(body.Messages)-1].Content
		}
		replyWith(ethanolProfile)(w, r)
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("sds_file", "ethanol-sds.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("SECTION 1: Ethanol absolute, CAS 64-17-5")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/app/api/ai/sds", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = authenticateRequest(t, f.sm, req, f.staff.ID)
	w := httptest.NewRecorder()
	AISDS(w, req)

	expectStatus(t, w, http.StatusOK)
	profile := decodeBody[ai.Profile](t, w)
	if profile.Name != "Ethanol" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if !strings.Contains(prompt, "CAS 64-17-5") {
		t.Fatalf("expected document text in prompt, got %q", prompt)
	}
}

func TestAISDSRejectsMissingFile(t *testing.T) {
	f := newAPIFixture(t)
	withAIClient(t, replyWith(ethanolProfile))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("model", "gpt-4o-mini")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/app/api/ai/sds", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = authenticateRequest(t, f.sm, req, f.staff.ID)
	w := httptest.NewRecorder()
	AISDS(w, req)

	expectStatus(t, w, http.StatusBadRequest)
	if !strings.Contains(w.Body.String(), "no file uploaded") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestDeriveTextFromUpload(t *testing.T) {
	text, err := deriveTextFromUpload([]byte("hello"), "text/plain; charset=utf-8")
	if err != nil || text != "hello" {
		t.Fatalf("expected plain text passthrough, got %q, %v", text, err)
	}
	if _, err := deriveTextFromUpload([]byte{0x00}, "image/png"); err == nil {
		t.Fatal("expected unsupported type error")
	}
	if _, err := deriveTextFromUpload([]byte("not a pdf"), "application/pdf"); err == nil {
		t.Fatal("expected invalid pdf error")
	}
	if got := mimeTypeFromName("SDS.PDF"); got != "application/pdf" {
		t.Fatalf("unexpected mime %q", got)
	}
}
