package booking

import (
	"context"
	"sync"

	"flightdesk/models"
)

const (
	legOut models.ScopeKey = "NBO-JED"
	legCon models.ScopeKey = "JED-DXB"
	dirOut models.ScopeKey = "NBO-DXB"
)

func testItinerary() *models.Itinerary {
	return &models.Itinerary{
		TripKind:      models.TripOneWay,
		TraceID:       "trace-1",
		ItineraryCode: "ITN-1",
		Currency:      "USD",
		TotalAmount:   420.5,
		Directions: []models.Direction{{
			Kind: models.DirectionOutbound,
			Key:  dirOut,
			Legs: []models.PhysicalLeg{{Key: legOut}, {Key: legCon}},
		}},
		SeatMaps: map[models.ScopeKey]models.SeatMap{
			legOut: {Leg: legOut, Source: legOut, Rows: [][]models.SeatOption{{
				{Code: "12A", Number: "12A", Row: "12", Price: 15},
				{Code: "12B", Number: "12B", Row: "12", Price: 12},
				{Code: "12C", Number: "12C", Row: "12", IsBooked: true},
			}}},
		},
		Baggage: map[models.ScopeKey][]models.BaggageOption{
			dirOut: {{Code: "BAG20", Description: "20kg", Price: 40}},
		},
		Meals: map[models.ScopeKey][]models.MealOption{
			legOut: {{Code: "VGML", Description: "Vegetarian", Price: 8.25}},
		},
	}
}

func bareItinerary() *models.Itinerary {
	it := testItinerary()
	it.SeatMaps = map[models.ScopeKey]models.SeatMap{}
	it.Baggage = map[models.ScopeKey][]models.BaggageOption{}
	it.Meals = map[models.ScopeKey][]models.MealOption{}
	return it
}

func testTravelers() []models.Traveler {
	return []models.Traveler{
		{ID: "t1", Type: models.TravelerAdult, FirstName: "Amina", LastName: "Otieno", DateOfBirth: "1988-04-12", Email: "amina@example.com", Phone: "+254700000001", IsLead: true},
		{ID: "t2", FirstName: "Brian", LastName: "Otieno", DateOfBirth: "1990-09-30"},
	}
}

type fakeProvider struct {
	mu sync.Mutex

	itinerary *models.ItineraryRaw
	allocate  func(ctx context.Context, req models.AllocateRequest) (*models.AllocateResponse, error)
	recheck   func(ctx context.Context, req models.RecheckRequest) (*models.RecheckResponse, error)
	book      func(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error)

	searches  []models.FlightSearchRequest
	allocated []models.AllocateRequest
	booked    []models.BookRequest
}

func (f *fakeProvider) SearchFlights(_ context.Context, req models.FlightSearchRequest) (*models.FlightSearchResponse, error) {
	f.mu.Lock()
	f.searches = append(f.searches, req)
	f.mu.Unlock()
	return &models.FlightSearchResponse{TraceID: "trace-1", Offers: []models.FlightOffer{{ItemID: "offer-1"}}}, nil
}

func (f *fakeProvider) CreateItinerary(context.Context, models.CreateItineraryRequest) (*models.ItineraryRaw, error) {
	return f.itinerary, nil
}

func (f *fakeProvider) AllocatePassengers(ctx context.Context, req models.AllocateRequest) (*models.AllocateResponse, error) {
	f.mu.Lock()
	f.allocated = append(f.allocated, req)
	fn := f.allocate
	f.mu.Unlock()
	if fn == nil {
		return &models.AllocateResponse{TraceID: "trace-2"}, nil
	}
	return fn(ctx, req)
}

func (f *fakeProvider) RecheckRate(ctx context.Context, req models.RecheckRequest) (*models.RecheckResponse, error) {
	f.mu.Lock()
	fn := f.recheck
	f.mu.Unlock()
	if fn == nil {
		return &models.RecheckResponse{TotalAmount: 420.5, TraceID: "trace-3", ItineraryCode: "ITN-3"}, nil
	}
	return fn(ctx, req)
}

func (f *fakeProvider) BookFlight(ctx context.Context, req models.BookRequest) (*models.BookingConfirmation, error) {
	f.mu.Lock()
	f.booked = append(f.booked, req)
	fn := f.book
	f.mu.Unlock()
	if fn == nil {
		return &models.BookingConfirmation{Reference: "REF-1", PNR: "X7YZ9Q", Status: "CONFIRMED", TotalAmount: 420.5, Currency: "USD"}, nil
	}
	return fn(ctx, req)
}

func (f *fakeProvider) allocations() []models.AllocateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AllocateRequest(nil), f.allocated...)
}

func (f *fakeProvider) bookings() []models.BookRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.BookRequest(nil), f.booked...)
}

type fakeRecordWriter struct {
	mu      sync.Mutex
	records []models.BookingRecord
	err     error
}

func (w *fakeRecordWriter) Write(_ context.Context, record models.BookingRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.records = append(w.records, record)
	return nil
}

func (w *fakeRecordWriter) written() []models.BookingRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.BookingRecord(nil), w.records...)
}
