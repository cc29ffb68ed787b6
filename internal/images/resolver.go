package images

import (
	"regexp"
	"strconv"
)

var placeholderPattern = regexp.MustCompile(`^IMAGE_(\d+)$`)

// Resolve maps a slide's placeholder token to an uploaded image by 1-based
// position. A malformed token, an out-of-range index, or an empty token
// resolves to no image rather than an error: slides are immutable after
// generation but images can still be removed, so stale references are
// expected and tolerated.
func Resolve(token string, imgs []UploadedImage) (*UploadedImage, bool) {
	if token == "" {
		return nil, false
	}

	m := placeholderPattern.FindStringSubmatch(token)
	if m == nil {
		return nil, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}

	idx := n - 1
	if idx < 0 || idx >= len(imgs) {
		return nil, false
	}

	return &imgs[idx], true
}
