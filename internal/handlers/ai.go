package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"labstock/internal/ai"
	"labstock/internal/inventory"
	applog "labstock/internal/log"
)

const maxSDSUploadSize = 5 << 20 // 5 MiB

var openAIClient *ai.Client

// ConfigureAI installs the OpenAI client used by the assistant endpoints. A nil
// client disables them.
func ConfigureAI(client *ai.Client) {
	openAIClient = client
}

type lookupRequest struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
	Model   string `json:"model"`
}

type safetyResponse struct {
	Name   string `json:"name"`
	Advice string `json:"advice"`
}

// AILookup asks the assistant for the identity and hazard data of a chemical.
// The answer only pre-fills the creation form; nothing is stored.
func AILookup(w http.ResponseWriter, r *http.Request) {
	req, ok := readAssistantRequest(w, r)
	if !ok {
		return
	}
	profile, err := openAIClient.FetchChemicalProfile(r.Context(), req.Name, ai.FetchOptions{ModelOverride: req.Model})
	if err != nil {
		applog.Error(r.Context(), "ai lookup failed", "error", err, "name", req.Name)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// AISafety returns a short handling and first-aid summary for a chemical.
func AISafety(w http.ResponseWriter, r *http.Request) {
	req, ok := readAssistantRequest(w, r)
	if !ok {
		return
	}
	advice, err := openAIClient.SafetyAdvice(r.Context(), req.Name, req.Formula, ai.FetchOptions{ModelOverride: req.Model})
	if err != nil {
		applog.Error(r.Context(), "ai safety advice failed", "error", err, "name", req.Name)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, safetyResponse{Name: req.Name, Advice: advice})
}

// AISDS extracts a chemical profile from an uploaded safety data sheet
// (multipart field "sds_file", PDF or plain text).
func AISDS(w http.ResponseWriter, r *http.Request) {
	if !assistantAvailable(w, r) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSDSUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxSDSUploadSize); err != nil {
		applog.Debug(r.Context(), "invalid sds upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "upload a PDF or text file in the sds_file field")
		return
	}

	name, data, mime, err := readSDSUpload(r)
	if err != nil {
		applog.Debug(r.Context(), "unable to read sds upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := deriveTextFromUpload(data, mime)
	if err != nil {
		applog.Debug(r.Context(), "unable to extract sds text", "error", err, "file", name)
		writeJSONError(w, http.StatusBadRequest, "the file could not be read as PDF or text")
		return
	}
	if strings.TrimSpace(text) == "" {
		writeJSONError(w, http.StatusBadRequest, "the file contains no extractable text")
		return
	}

	profile, err := openAIClient.ExtractChemicalFromText(r.Context(), ai.SDSInput{FileName: name, Text: text}, ai.FetchOptions{
		ModelOverride: strings.TrimSpace(r.FormValue("model")),
	})
	if err != nil {
		applog.Error(r.Context(), "ai sds extraction failed", "error", err, "file", name)
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func assistantAvailable(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	actor, ok := apiActor(w, r)
	if !ok {
		return false
	}
	if !actor.Role.CanEdit() {
		writeJSONError(w, http.StatusForbidden, "your role does not allow this action")
		return false
	}
	if openAIClient == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "AI integration is not configured. Set AI_API_KEY to enable it.")
		return false
	}
	return true
}

func readAssistantRequest(w http.ResponseWriter, r *http.Request) (lookupRequest, bool) {
	if !assistantAvailable(w, r) {
		return lookupRequest{}, false
	}

	var req lookupRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return lookupRequest{}, false
		}
	} else {
		req.Name = r.FormValue("name")
		req.Formula = r.FormValue("formula")
		req.Model = r.FormValue("model")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, r, fmt.Errorf("%w: provide a chemical name", inventory.ErrValidation))
		return lookupRequest{}, false
	}
	return req, true
}

func readSDSUpload(r *http.Request) (string, []byte, string, error) {
	file, header, err := r.FormFile("sds_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, "", errors.New("no file uploaded")
		}
		return "", nil, "", err
	}
	defer file.Close()

	if header.Size > maxSDSUploadSize {
		return "", nil, "", fmt.Errorf("file exceeds %d bytes", maxSDSUploadSize)
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return "", nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = mimeTypeFromName(header.Filename)
	}

	return header.Filename, buf.Bytes(), mime, nil
}

func deriveTextFromUpload(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		return extractTextFromPDF(data)
	case strings.HasPrefix(lower, "text/"):
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", mime)
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func mimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
