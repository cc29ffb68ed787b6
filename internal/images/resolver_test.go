package images

import "testing"

func TestResolve(t *testing.T) {
	imgs := []UploadedImage{
		{Name: "first.png", MIMEType: "image/png"},
		{Name: "second.jpg", MIMEType: "image/jpeg"},
	}

	tests := []struct {
		name     string
		token    string
		imgs     []UploadedImage
		wantName string
		wantOK   bool
	}{
		{"first image", "IMAGE_1", imgs, "first.png", true},
		{"second image", "IMAGE_2", imgs, "second.jpg", true},
		{"out of range", "IMAGE_3", imgs, "", false},
		{"zero index", "IMAGE_0", imgs, "", false},
		{"malformed token", "IMAGE_X", imgs, "", false},
		{"lowercase token", "image_1", imgs, "", false},
		{"empty token", "", imgs, "", false},
		{"no images", "IMAGE_1", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, ok := Resolve(tt.token, tt.imgs)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if !ok && img != nil {
				t.Fatalf("Resolve(%q) returned image without ok", tt.token)
			}
			if ok && img.Name != tt.wantName {
				t.Errorf("Resolve(%q) = %v, want %v", tt.token, img.Name, tt.wantName)
			}
		})
	}
}

func TestResolveAfterRemoval(t *testing.T) {
	// Slides keep their placeholders when images are removed afterwards;
	// resolution degrades to "no image" instead of failing.
	imgs := []UploadedImage{
		{Name: "only.png"},
	}

	if _, ok := Resolve("IMAGE_2", imgs); ok {
		t.Error("dangling placeholder should resolve to no image")
	}
	if _, ok := Resolve("IMAGE_1", imgs[:0]); ok {
		t.Error("placeholder over empty list should resolve to no image")
	}
}
