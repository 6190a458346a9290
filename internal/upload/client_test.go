package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadResponseJSON = `{
	"public_id": "second-hand/listings/abc123",
	"secure_url": "https://cdn.example.com/image/upload/v1700000001/second-hand/listings/abc123.jpg",
	"width": 1000,
	"height": 800,
	"format": "jpg",
	"bytes": 3
}`

func TestUploadImage(t *testing.T) {
	var gotPath, gotPreset, gotFolder, gotFilename string
	var gotFile []byte
	var parseErr error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if parseErr = r.ParseMultipartForm(10 << 20); parseErr == nil {
			gotPreset = r.FormValue("upload_preset")
			gotFolder = r.FormValue("folder")
			if file, header, err := r.FormFile("file"); err == nil {
				gotFilename = header.Filename
				gotFile, _ = io.ReadAll(file)
				file.Close()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(uploadResponseJSON))
	}))
	defer srv.Close()

	client := NewClient(ClientOpts{BaseURL: srv.URL, UploadPreset: "listing-photos"})
	imageData := []byte{0xFF, 0xD8, 0xFF}

	result, err := client.UploadImage(context.Background(), imageData, "")
	require.NoError(t, err)
	require.NoError(t, parseErr)

	assert.Equal(t, "/image/upload", gotPath)
	assert.Equal(t, "listing-photos", gotPreset)
	assert.Equal(t, DefaultFolder, gotFolder)
	assert.Equal(t, "image", gotFilename)
	assert.Equal(t, imageData, gotFile)

	assert.Equal(t, "second-hand/listings/abc123", result.PublicID)
	assert.Equal(t, "https://cdn.example.com/image/upload/v1700000001/second-hand/listings/abc123.jpg", result.SecureURL)
	assert.Equal(t, 1000, result.Width)
	assert.Equal(t, 800, result.Height)
	assert.Equal(t, "jpg", result.Format)
}

func TestUploadImage_customFolder(t *testing.T) {
	var gotFolder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			gotFolder = r.FormValue("folder")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(uploadResponseJSON))
	}))
	defer srv.Close()

	client := NewClient(ClientOpts{BaseURL: srv.URL, UploadPreset: "listing-photos"})
	_, err := client.UploadImage(context.Background(), []byte{0x01}, "second-hand/avatars")
	require.NoError(t, err)
	assert.Equal(t, "second-hand/avatars", gotFolder)
}

func TestUploadImage_signedMode(t *testing.T) {
	var gotPreset, gotAPIKey, gotTimestamp, gotSignature, gotFolder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err == nil {
			gotPreset = r.FormValue("upload_preset")
			gotAPIKey = r.FormValue("api_key")
			gotTimestamp = r.FormValue("timestamp")
			gotSignature = r.FormValue("signature")
			gotFolder = r.FormValue("folder")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(uploadResponseJSON))
	}))
	defer srv.Close()

	client := NewClient(ClientOpts{BaseURL: srv.URL, APIKey: "key-123", APISecret: "shh"})
	_, err := client.UploadImage(context.Background(), []byte{0x01}, "")
	require.NoError(t, err)

	assert.Empty(t, gotPreset, "signed uploads must not send a preset")
	assert.Equal(t, "key-123", gotAPIKey)
	require.NotEmpty(t, gotTimestamp)

	want := SignParams(map[string]string{
		"folder":    gotFolder,
		"timestamp": gotTimestamp,
	}, "shh")
	assert.Equal(t, want, gotSignature)
}

func TestUploadImage_errorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Upload preset not found"}}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOpts{BaseURL: srv.URL, UploadPreset: "missing"})
	_, err := client.UploadImage(context.Background(), []byte{0x01}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 400")
}

func TestUploadImage_emptyData(t *testing.T) {
	client := NewClient(ClientOpts{BaseURL: "http://127.0.0.1:0", UploadPreset: "p"})
	_, err := client.UploadImage(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image data")
}
