package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%caf%`, likePattern("caf"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestWhere_NumeraArgumentos(t *testing.T) {
	var w where
	assert.Empty(t, w.sql())

	w.add(`(name ILIKE ? OR sku ILIKE ?)`, "%x%")
	w.add(`type = ?`, "IN")
	page := w.page(0, 5)

	assert.Equal(t, ` WHERE (name ILIKE $1 OR sku ILIKE $1) AND type = $2`, w.sql())
	assert.Equal(t, ` LIMIT $3 OFFSET $4`, page)
	assert.Equal(t, []any{"%x%", "IN", nil, 5}, w.args)
}

func TestLimitArg(t *testing.T) {
	assert.Nil(t, limitArg(0))
	assert.Nil(t, limitArg(-1))
	assert.Equal(t, 10, limitArg(10))
}
