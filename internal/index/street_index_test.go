package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/listing-resolver/internal/domain"
	th "github.com/listing-resolver/internal/index/testhelpers"
)

func TestStreetIndex_NearestWithinRadius(t *testing.T) {
	idx := NewStreetIndex(th.OdesaStreets(), zap.NewNop())
	geo := th.PrymorskyiID

	got := idx.Nearest(th.Center, &geo, 200)
	require.NotNil(t, got)
	assert.Equal(t, th.DerybasivskaID, got.Street.ID)
	assert.InDelta(t, 80, got.Distance, 1)

	assert.Nil(t, idx.Nearest(th.Center, &geo, 50))
}

func TestStreetIndex_NearestBoundaryIsInclusive(t *testing.T) {
	idx := NewStreetIndex(th.OdesaStreets(), nil)

	first := idx.Nearest(th.Center, nil, 200)
	require.NotNil(t, first)

	got := idx.Nearest(th.Center, nil, first.Distance)
	require.NotNil(t, got, "street exactly on the radius is accepted")
	assert.Equal(t, th.DerybasivskaID, got.Street.ID)
}

func TestStreetIndex_NearestPrefersScopedGeo(t *testing.T) {
	// в 50 м улица чужого района, в 150 м - своего, в 400 м - еще одна своя
	own := int64(10)
	other := int64(11)
	streets := []*domain.Street{
		th.Street(1, other, "Чужа", th.HorizontalLine(th.Center, 50, 500)),
		th.Street(2, own, "Своя", th.HorizontalLine(th.Center, -150, 500)),
		th.Street(3, own, "Далека", th.HorizontalLine(th.Center, 400, 500)),
	}
	idx := NewStreetIndex(streets, nil)

	got := idx.Nearest(th.Center, &own, 200)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Street.ID)

	// без гео-узла побеждает ближайшая
	got = idx.Nearest(th.Center, nil, 200)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Street.ID)

	// своих в радиусе нет - поиск расширяется на все улицы
	got = idx.Nearest(th.Center, &own, 100)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Street.ID)
}

func TestStreetIndex_NearestTieTakesLowerID(t *testing.T) {
	line := th.HorizontalLine(th.Center, 100, 500)
	streets := []*domain.Street{
		th.Street(7, 1, "Стара", line),
		th.Street(5, 1, "Нова", line),
	}
	got := NewStreetIndex(streets, nil).Nearest(th.Center, nil, 200)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.Street.ID)
}

func TestStreetIndex_NearestInvalidInput(t *testing.T) {
	idx := NewStreetIndex(th.OdesaStreets(), nil)
	assert.Nil(t, idx.Nearest(domain.Point{}, nil, 500))
	assert.Nil(t, idx.Nearest(th.Center, nil, 0))
}

func TestStreetIndex_ByNormalizedName(t *testing.T) {
	idx := NewStreetIndex(th.OdesaStreets(), nil)

	got := idx.ByNormalizedName("дерибасівська")
	require.Len(t, got, 1)
	assert.Equal(t, th.DerybasivskaID, got[0].ID)

	// историческое название
	got = idx.ByNormalizedName("карла маркса")
	require.Len(t, got, 1)
	assert.Equal(t, th.HretskaID, got[0].ID)

	assert.Empty(t, idx.ByNormalizedName("хрещатик"))
}

func TestStreetIndex_NameSets(t *testing.T) {
	idx := NewStreetIndex(th.OdesaStreets(), nil)

	scoped := idx.NamesForGeo(th.PrymorskyiID)
	assert.True(t, scoped.Has("грецька"))
	assert.True(t, scoped.Has("карла маркса"))
	assert.False(t, scoped.Has("академіка корольова"))

	assert.True(t, idx.GlobalNames().Has("академіка корольова"))
	assert.Equal(t, 0, idx.NamesForGeo(999).Len())
}

func TestStreetIndex_StreetByName(t *testing.T) {
	streets := append(th.OdesaStreets(), th.Street(200, th.KyivskyiID, "Грецька", nil))
	idx := NewStreetIndex(streets, nil)

	geo := th.KyivskyiID
	assert.Equal(t, int64(200), idx.StreetByName("грецька", &geo).ID)
	assert.Equal(t, th.HretskaID, idx.StreetByName("грецька", nil).ID, "global lookup takes the lower ID")
	assert.Nil(t, idx.StreetByName("пушкінська", &geo))
}

func TestStreetIndex_RenameLookup(t *testing.T) {
	idx := NewStreetIndex(th.OdesaStreets(), nil)

	got := idx.RenameLookup("вул. Карла Маркса")
	require.Len(t, got, 1)
	assert.Equal(t, th.HretskaID, got[0].ID)

	assert.Empty(t, idx.RenameLookup("Грецька"), "current names are not renames")
	assert.Equal(t, th.HretskaID, idx.Street(th.HretskaID).ID)
}
