package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/domain/schema"
)

func TestRowPredicate(t *testing.T) {
	assert.Equal(t, "id = $1", rowPredicate(nil))

	steps, err := schema.Salones().RowTeardown(schema.TableClients)
	require.NoError(t, err)

	var offerServices *schema.RowStep
	for i := range steps {
		if steps[i].Table == schema.TableOfferServices {
			offerServices = &steps[i]
		}
	}
	require.NotNil(t, offerServices)
	assert.Equal(t,
		`"offer_id" IN (SELECT id FROM "offers" WHERE "client_id" = $1)`,
		rowPredicate(offerServices.Path))
}

func TestIdent(t *testing.T) {
	assert.Equal(t, `"venue_stock"`, ident("venue_stock"))
	assert.Equal(t, `"a""b"`, ident(`a"b`))
}
