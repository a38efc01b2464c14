package isbn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "9780130113024", Normalize("9780130113024"))
	assert.Equal(t, "9780130113024", Normalize("978-0-13-011302-4"))
	assert.Equal(t, "9780130113024", Normalize(" 978 0130 113024 "))
	assert.Equal(t, "020161622X", Normalize("0-201-61622-x"))
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("abc"))
}

func TestNormalize_KeepsOnlyLiteralX(t *testing.T) {
	// letters other than x/X are dropped, not mapped
	assert.Equal(t, "12X", Normalize("1a2bxc"))
}
