/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned when the file or data URL does not hold a decodable image.
var ErrNotImage = errors.New("not an image")

// Image is an opaque background reference: its data URL plus decoded pixels.
type Image struct {
	Name    string      `json:"name,omitempty"`
	DataURL string      `json:"dataURL"`
	Pixels  image.Image `json:"-"`
}

// Size returns the intrinsic pixel size of the image.
func (i *Image) Size() (w, h int) {
	if i == nil || i.Pixels == nil {
		return 0, 0
	}
	b := i.Pixels.Bounds()
	return b.Dx(), b.Dy()
}

// LoadImageFile reads a user-selected file into a data URL and decodes it.
func LoadImageFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}
	return ImageFromBytes(filepath.Base(path), data)
}

// ImageFromBytes builds an Image from raw encoded bytes.
func ImageFromBytes(name string, data []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotImage, name, err)
	}
	mt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if !strings.HasPrefix(mt, "image/") {
		mt = http.DetectContentType(data)
	}
	return &Image{
		Name:    name,
		DataURL: EncodeDataURL(mt, data),
		Pixels:  img,
	}, nil
}

// ImageFromDataURL decodes a base64 data URL.
func ImageFromDataURL(name, dataURL string) (*Image, error) {
	data, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotImage, name, err)
	}
	return &Image{Name: name, DataURL: dataURL, Pixels: img}, nil
}

// DecodeDataURL returns the payload of a base64 "data:" URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data url encoding")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return data, nil
}

// EncodeDataURL formats bytes as a base64 data URL of the given media type.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
