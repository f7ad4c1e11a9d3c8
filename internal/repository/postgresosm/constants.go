package postgresosm

const (
	SRID4326 = 4326
	SRID3857 = 3857

	// LimitFeatures - максимум объектов за один запрос по bbox
	LimitFeatures = 50000
)

const (
	planetPolygonTable = "planet_osm_polygon"
)

// Виды жилых объектов OSM, из которых строится таблица ЖК
const (
	KindBuilding = "building"
	KindLanduse  = "landuse"
)

// residentialFilter - здания жилого типа и жилые зоны
const residentialFilter = `(building IN ('apartments', 'residential', 'house') OR landuse = 'residential')`
