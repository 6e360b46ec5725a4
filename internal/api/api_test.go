package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erazemk/ornate/internal/blob"
	"github.com/erazemk/ornate/internal/db"
	"github.com/erazemk/ornate/internal/model"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	images, err := blob.NewDir(t.TempDir(), "http://images.test/images")
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	server := httptest.NewServer(NewRouter(database, images))
	t.Cleanup(server.Close)
	return server
}

func jsonRequest(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if s, ok := body.(string); ok {
		r = strings.NewReader(s)
	} else {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func sampleBody() map[string]any {
	return map[string]any{
		"name":           "Temple Necklace",
		"category":       "Necklace",
		"image_url":      "https://example.com/temple.jpg",
		"outfit_type":    []string{"Wedding"},
		"occasion":       []string{"wedding"},
		"primary_colors": []string{"Gold"},
		"notes":          "Bridal",
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestCollectionFlow(t *testing.T) {
	server := setupTestServer(t)

	// Create.
	resp := jsonRequest(t, "POST", server.URL+"/collection/", sampleBody())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Record
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned id and created_at, got %+v", created)
	}

	// List.
	resp, err := http.Get(server.URL + "/collection/")
	if err != nil {
		t.Fatal(err)
	}
	var records []model.Record
	json.NewDecoder(resp.Body).Decode(&records)
	resp.Body.Close()
	if len(records) != 1 || records[0].ID != created.ID {
		t.Fatalf("expected the created record, got %+v", records)
	}

	// Filter.
	resp, _ = http.Get(server.URL + "/collection/?category=ring")
	records = nil
	json.NewDecoder(resp.Body).Decode(&records)
	resp.Body.Close()
	if len(records) != 0 {
		t.Errorf("expected no rings, got %d", len(records))
	}

	// Update.
	body := sampleBody()
	body["name"] = "Antique Temple Necklace"
	resp = jsonRequest(t, "PUT", server.URL+"/collection/"+created.ID, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated model.Record
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Name == nil || *updated.Name != "Antique Temple Necklace" {
		t.Errorf("name not updated: %+v", updated)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update")
	}

	// Get.
	resp, _ = http.Get(server.URL + "/collection/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateValidation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
		status int
	}{
		{"missing category", func(b map[string]any) { delete(b, "category") }, http.StatusUnprocessableEntity},
		{"missing image", func(b map[string]any) { delete(b, "image_url") }, http.StatusUnprocessableEntity},
		{"relative image", func(b map[string]any) { b["image_url"] = "/images/x.jpg" }, http.StatusUnprocessableEntity},
		{"ftp image", func(b map[string]any) { b["image_url"] = "ftp://example.com/x.jpg" }, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		body := sampleBody()
		tt.mutate(body)
		resp := jsonRequest(t, "POST", server.URL+"/collection/", body)
		if resp.StatusCode != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.status, resp.StatusCode)
		}
		var e map[string]string
		json.NewDecoder(resp.Body).Decode(&e)
		resp.Body.Close()
		if e["error"] == "" {
			t.Errorf("%s: expected error detail", tt.name)
		}
	}

	resp := jsonRequest(t, "POST", server.URL+"/collection/", "{broken")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUpdateUnknownID(t *testing.T) {
	server := setupTestServer(t)

	resp := jsonRequest(t, "PUT", server.URL+"/collection/missing", sampleBody())
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Get(server.URL + "/collection/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func uploadRequest(t *testing.T, url string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "photo.png")
	part.Write(data)
	mw.Close()

	resp, err := http.Post(url+"/upload-image", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return resp
}

func TestUploadAndServeImage(t *testing.T) {
	server := setupTestServer(t)

	var img bytes.Buffer
	png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 30)))

	resp := uploadRequest(t, server.URL, img.Bytes())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var up uploadResponse
	json.NewDecoder(resp.Body).Decode(&up)
	resp.Body.Close()

	if !strings.HasSuffix(up.Filename, ".jpg") {
		t.Errorf("expected .jpg filename, got %q", up.Filename)
	}
	if up.ImageURL != "http://images.test/images/"+up.Filename {
		t.Errorf("unexpected image_url %q", up.ImageURL)
	}
	if up.Size == 0 {
		t.Error("expected non-zero size")
	}

	resp, _ = http.Get(server.URL + "/images/" + up.Filename)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 serving image, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) != up.Size {
		t.Errorf("expected %d bytes, got %d", up.Size, len(data))
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	server := setupTestServer(t)

	resp := uploadRequest(t, server.URL, []byte("definitely not a photo"))
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestServeMissingImage(t *testing.T) {
	server := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/images/nope.jpg")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
