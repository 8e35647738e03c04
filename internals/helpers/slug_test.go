package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "fachada-escola-sao-joao", Slugify("  Fachada Escola São João!!.png ", 23, "file"))
	assert.Equal(t, "creche-paraiso", Slugify("CRECHE -- PARAÍSO", 0, "file"))
	assert.Equal(t, "file", Slugify("***", 10, "file"))
	assert.Equal(t, "abc", Slugify("abc-def", 4, "file"))
}
