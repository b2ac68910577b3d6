package constants

import (
	"fmt"
	"time"
)

// Redis key and TTL registry for skybook.
// Pattern: skybook:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "skybook"
)

// ================== CACHE TTL DURATIONS ==================

// Static data (rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // airports
	TTL_STATIC_MEDIUM = 12 * time.Hour // aircraft
)

// Semi-static data (changes occasionally)
const (
	TTL_SEMI_STATIC_SHORT = 1 * time.Hour    // flight listings
	TTL_SEMI_STATIC_QUICK = 15 * time.Minute // upcoming flights
)

// ================== FLIGHTS MODULE ==================

const (
	CACHE_KEY_FLIGHTS_LIST     = CACHE_PREFIX + ":flights:list"         // + :page:X:limit:Y
	CACHE_KEY_FLIGHTS_UPCOMING = CACHE_PREFIX + ":flights:upcoming"     // upcoming, non-cancelled
	CACHE_KEY_FLIGHT_DETAIL    = CACHE_PREFIX + ":flights:detail:uuid:" // + flight-id
	CACHE_KEY_AIRPORTS_LIST    = CACHE_PREFIX + ":airports:list"
	CACHE_KEY_AIRCRAFT_LIST    = CACHE_PREFIX + ":aircraft:list"
)

const (
	TTL_FLIGHTS_LIST     = TTL_SEMI_STATIC_SHORT
	TTL_FLIGHTS_UPCOMING = TTL_SEMI_STATIC_QUICK
	TTL_FLIGHT_DETAIL    = TTL_SEMI_STATIC_QUICK
	TTL_AIRPORTS_LIST    = TTL_STATIC_LONG
	TTL_AIRCRAFT_LIST    = TTL_STATIC_MEDIUM
)

// ================== BOOKING SESSIONS ==================

// Booking sessions are not a cache: they are the authoritative store for an
// in-progress booking draft and expire with the session TTL. Seat and pricing
// data inside a session is loaded fresh at session start, never shared
// between sessions.
const (
	SESSION_KEY_PREFIX = CACHE_PREFIX + ":booking_session:" // + session-id
)

// BuildFlightListKey builds a paginated flight list cache key
func BuildFlightListKey(page, limit int) string {
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_FLIGHTS_LIST, page, limit)
}

// BuildFlightDetailKey builds a flight detail cache key
func BuildFlightDetailKey(flightID string) string {
	return CACHE_KEY_FLIGHT_DETAIL + flightID
}

// BuildSessionKey builds the Redis key for a booking session document
func BuildSessionKey(sessionID string) string {
	return SESSION_KEY_PREFIX + sessionID
}
