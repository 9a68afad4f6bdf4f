package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectPhotosDedupesAcrossAliases(t *testing.T) {
	r := record(t, `{
		"property_photos": ["b.jpg", "c.jpg"],
		"Project Photos": ["a.jpg", "b.jpg", "", "a.jpg"],
		"PropertyPhotos": "d.jpg"
	}`)

	got := CollectPhotos(r, PropertyPhotoKeys)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, got)
}

func TestCollectPhotosSkipsNonStrings(t *testing.T) {
	r := record(t, `{"Locality Photos": ["x.jpg", 3, null, {"u": 1}, "x.jpg"]}`)
	assert.Equal(t, []string{"x.jpg"}, CollectPhotos(r, LocalityPhotoKeys))
}

func TestCollectPhotosEmpty(t *testing.T) {
	got := CollectPhotos(record(t, `{}`), PropertyPhotoKeys)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPhotoGroupsAreIndependent(t *testing.T) {
	r := record(t, `{"project photos": ["p.jpg"], "locality_photos": ["l.jpg", "p.jpg"]}`)

	assert.Equal(t, []string{"p.jpg"}, CollectPhotos(r, PropertyPhotoKeys))
	assert.Equal(t, []string{"l.jpg", "p.jpg"}, CollectPhotos(r, LocalityPhotoKeys))
}
