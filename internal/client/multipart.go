package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"storefront/internal/models"
)

// FileUpload is one file attached to a multipart request.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// PostForm carries the fields of a listing create/update. On update,
// KeepImageIDs names the already-uploaded images to retain; images
// absent from the list are deleted server-side.
type PostForm struct {
	Caption      string
	Price        models.Money
	Images       []FileUpload
	KeepImageIDs []int
}

func (f PostForm) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("caption", f.Caption); err != nil {
		return nil, "", fmt.Errorf("client: encode caption: %w", err)
	}
	if err := w.WriteField("price", f.Price.String()); err != nil {
		return nil, "", fmt.Errorf("client: encode price: %w", err)
	}
	for _, id := range f.KeepImageIDs {
		if err := w.WriteField("existing_images", strconv.Itoa(id)); err != nil {
			return nil, "", fmt.Errorf("client: encode existing_images: %w", err)
		}
	}
	for _, img := range f.Images {
		part, err := w.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, "", fmt.Errorf("client: attach image %s: %w", img.Name, err)
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, "", fmt.Errorf("client: copy image %s: %w", img.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("client: finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// encodeProfileForm writes the changed profile fields, plus the avatar
// file when one is provided.
func encodeProfileForm(upd models.ProfileUpdate, avatar *FileUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]*string{
		"first_name":       upd.FirstName,
		"last_name":        upd.LastName,
		"email":            upd.Email,
		"bio":              upd.Bio,
		"phone":            upd.Phone,
		"delivery_address": upd.DeliveryAddress,
	}
	for name, value := range fields {
		if value == nil {
			continue
		}
		if err := w.WriteField(name, *value); err != nil {
			return nil, "", fmt.Errorf("client: encode %s: %w", name, err)
		}
	}
	if upd.PreferredPaymentMethod != nil {
		if err := w.WriteField("preferred_payment_method", string(*upd.PreferredPaymentMethod)); err != nil {
			return nil, "", fmt.Errorf("client: encode preferred_payment_method: %w", err)
		}
	}
	if avatar != nil {
		part, err := w.CreateFormFile("profile_photo", avatar.Name)
		if err != nil {
			return nil, "", fmt.Errorf("client: attach avatar: %w", err)
		}
		if _, err := io.Copy(part, avatar.Content); err != nil {
			return nil, "", fmt.Errorf("client: copy avatar: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("client: finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
