// Package photos proxies visitor photo uploads to the hosted image service
// and hands back the stable {url, publicId} reference stored on the visitor
// record.
package photos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"protodesk/models"
	"protodesk/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
)

// maxDimension is the longest edge we forward to the image host; protocol
// staff upload phone camera shots that are far bigger than the dashboard
// ever renders.
const maxDimension = 1600

type Uploader struct {
	BaseURL string
	Preset  string
	Folder  string
	Client  *http.Client
}

func NewUploaderFromEnv() *Uploader {
	return &Uploader{
		BaseURL: os.Getenv("IMAGE_HOST_URL"),
		Preset:  os.Getenv("IMAGE_UPLOAD_PRESET"),
		Folder:  "protocol-visitors",
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type hostResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// shrink re-encodes oversized images before they leave the building. Files
// that don't decode as images pass through untouched; the host does its own
// type rejection.
func shrink(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return data
	}
	resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG); err != nil {
		return data
	}
	return buf.Bytes()
}

// UploadFile forwards one file to the image host and returns the photo
// reference to embed in the visitor record.
func (u *Uploader) UploadFile(filename string, r io.Reader) (models.VisitorPhoto, error) {
	var photo models.VisitorPhoto

	if u.BaseURL == "" {
		return photo, fmt.Errorf("image host is not configured")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return photo, fmt.Errorf("read %s: %w", filename, err)
	}
	data = shrink(data)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return photo, err
	}
	if _, err := part.Write(data); err != nil {
		return photo, err
	}
	form.WriteField("upload_preset", u.Preset)
	form.WriteField("folder", u.Folder)
	if err := form.Close(); err != nil {
		return photo, err
	}

	req, err := http.NewRequest(http.MethodPost, u.BaseURL+"/image/upload", &body)
	if err != nil {
		return photo, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.Client.Do(req)
	if err != nil {
		return photo, fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	var hr hostResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return photo, fmt.Errorf("upload %s: bad host response: %w", filename, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := hr.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return photo, fmt.Errorf("upload %s: %s", filename, msg)
	}

	photo = models.VisitorPhoto{
		URL:        hr.SecureURL,
		PublicID:   hr.PublicID,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return photo, nil
}

// Upload is the batch endpoint: files go up one at a time, and a failed file
// is collected rather than aborting the rest.
func (u *Uploader) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		utils.SendError(w, http.StatusBadRequest, "No photos in request")
		return
	}

	photos := []models.VisitorPhoto{}
	var failures []utils.M
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			failures = append(failures, utils.M{"file": header.Filename, "message": "unreadable file"})
			continue
		}
		photo, err := u.UploadFile(header.Filename, f)
		f.Close()
		if err != nil {
			log.Printf("photos: %v", err)
			failures = append(failures, utils.M{"file": header.Filename, "message": err.Error()})
			continue
		}
		photos = append(photos, photo)
	}

	utils.SendSuccess(w, http.StatusOK, utils.M{
		"photos":   photos,
		"uploaded": len(photos),
		"failed":   len(failures),
		"errors":   failures,
	})
}
