package domain

// MethodTag - метка способа, которым было получено значение поля
type MethodTag string

const (
	MethodGeoContains           MethodTag = "geo_contains"
	MethodStreetNearest         MethodTag = "street_nearest"
	MethodStreetTextTitle       MethodTag = "street_text_title"
	MethodStreetTextDescription MethodTag = "street_text_description"
	MethodComplexText           MethodTag = "complex_text"
	MethodComplexContains       MethodTag = "complex_contains"
	MethodComplexFuzzy          MethodTag = "complex_fuzzy"
)

// ResolvedField - поле объявления, которое заполняет резолвер
type ResolvedField string

const (
	FieldGeo     ResolvedField = "geo_id"
	FieldStreet  ResolvedField = "street_id"
	FieldComplex ResolvedField = "complex_id"
)

// Field возвращает поле, к которому относится метка
func (m MethodTag) Field() ResolvedField {
	switch m {
	case MethodGeoContains:
		return FieldGeo
	case MethodStreetNearest, MethodStreetTextTitle, MethodStreetTextDescription:
		return FieldStreet
	default:
		return FieldComplex
	}
}

// ResolutionState - состояние объявления в конвейере
type ResolutionState string

const (
	StateUnresolved     ResolutionState = "unresolved"
	StateGeoResolved    ResolutionState = "geo_resolved"
	StateStreetResolved ResolutionState = "street_resolved"
	StateComplete       ResolutionState = "complete"
)

// Listing - объявление и результаты его привязки.
// Каждое из GeoID, StreetID, ComplexID заполняется не более одного раза.
type Listing struct {
	ID          int64
	Point       *Point
	Title       string
	Description string
	GeoID       *int64
	StreetID    *int64
	ComplexID   *int64
	Methods     []MethodTag
}

// HasPoint - есть ли у объявления пригодные координаты
func (l *Listing) HasPoint() bool {
	return l.Point != nil && l.Point.Valid()
}

// Apply применяет обновление по правилу "заполнить, если пусто".
// Метка добавляется только если ее поле было пустым до применения.
// Возвращает true, если что-то изменилось.
func (l *Listing) Apply(u ResolutionUpdate) bool {
	wasNull := map[ResolvedField]bool{
		FieldGeo:     l.GeoID == nil,
		FieldStreet:  l.StreetID == nil,
		FieldComplex: l.ComplexID == nil,
	}

	changed := false
	if l.GeoID == nil && u.GeoID != nil {
		l.GeoID = Int64Ptr(*u.GeoID)
		changed = true
	}
	if l.StreetID == nil && u.StreetID != nil {
		l.StreetID = Int64Ptr(*u.StreetID)
		changed = true
	}
	if l.ComplexID == nil && u.ComplexID != nil {
		l.ComplexID = Int64Ptr(*u.ComplexID)
		changed = true
	}

	for _, m := range u.Methods {
		if wasNull[m.Field()] && u.ValueFor(m.Field()) != nil && !l.HasMethod(m) {
			l.Methods = append(l.Methods, m)
			changed = true
		}
	}
	return changed
}

// HasMethod проверяет наличие метки
func (l *Listing) HasMethod(m MethodTag) bool {
	for _, x := range l.Methods {
		if x == m {
			return true
		}
	}
	return false
}

// ListingInput - объявление в том виде, в каком его отдает источник
type ListingInput struct {
	ID          int64    `json:"id" db:"id" validate:"required,gt=0"`
	Lat         *float64 `json:"lat,omitempty" db:"lat" validate:"omitempty,min=-90,max=90"`
	Lng         *float64 `json:"lng,omitempty" db:"lng" validate:"omitempty,min=-180,max=180"`
	Title       *string  `json:"title,omitempty" db:"title"`
	Description *string  `json:"description,omitempty" db:"description"`
	GeoID       *int64   `json:"geo_id,omitempty" db:"geo_id"`
	StreetID    *int64   `json:"street_id,omitempty" db:"street_id"`
	ComplexID   *int64   `json:"complex_id,omitempty" db:"complex_id"`
	Methods     []string `json:"resolution_methods,omitempty" db:"-"`
}

// ToListing переводит входные данные в Listing.
// Координаты попадают в Point только если заданы обе.
func (in ListingInput) ToListing() *Listing {
	l := &Listing{
		ID:        in.ID,
		GeoID:     in.GeoID,
		StreetID:  in.StreetID,
		ComplexID: in.ComplexID,
	}
	if in.Lat != nil && in.Lng != nil {
		l.Point = &Point{Lat: *in.Lat, Lon: *in.Lng}
	}
	if in.Title != nil {
		l.Title = *in.Title
	}
	if in.Description != nil {
		l.Description = *in.Description
	}
	for _, m := range in.Methods {
		l.Methods = append(l.Methods, MethodTag(m))
	}
	return l
}

// ResolutionUpdate - частичное обновление объявления "заполнить, если пусто"
type ResolutionUpdate struct {
	ListingID       int64           `json:"listing_id"`
	GeoID           *int64          `json:"geo_id,omitempty"`
	StreetID        *int64          `json:"street_id,omitempty"`
	ComplexID       *int64          `json:"complex_id,omitempty"`
	Methods         []MethodTag     `json:"resolution_methods"`
	State           ResolutionState `json:"state"`
	ComplexResolved bool            `json:"complex_resolved"`
}

// IsEmpty - обновление ничего не меняет
func (u ResolutionUpdate) IsEmpty() bool {
	return u.GeoID == nil && u.StreetID == nil && u.ComplexID == nil
}

// ValueFor возвращает значение обновления для поля
func (u ResolutionUpdate) ValueFor(f ResolvedField) *int64 {
	switch f {
	case FieldGeo:
		return u.GeoID
	case FieldStreet:
		return u.StreetID
	case FieldComplex:
		return u.ComplexID
	}
	return nil
}

// MethodStrings возвращает метки строками
func (u ResolutionUpdate) MethodStrings() []string {
	out := make([]string, len(u.Methods))
	for i, m := range u.Methods {
		out[i] = string(m)
	}
	return out
}

// MethodsFor возвращает метки, относящиеся к полю
func (u ResolutionUpdate) MethodsFor(f ResolvedField) []string {
	var out []string
	for _, m := range u.Methods {
		if m.Field() == f {
			out = append(out, string(m))
		}
	}
	return out
}
