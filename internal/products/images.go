package product

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const productCollection = "products"

// ImageStore keeps product pictures in object storage.
type ImageStore interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, object string) error
}

// ObjectPath is {store}/{collection}/{item}/{name}, or {store}/meta/{name}
// when the image does not belong to a collection item.
func ObjectPath(storeID uuid.UUID, collection, itemID, name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	collection = strings.Trim(collection, "/ ")
	itemID = strings.Trim(itemID, "/ ")
	if collection == "" || itemID == "" {
		return path.Join(storeID.String(), "meta", name)
	}
	return path.Join(storeID.String(), collection, itemID, name)
}
