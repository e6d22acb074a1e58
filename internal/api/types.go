package api

// Response represents the top-level Al Adhan response for a single day.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// CalendarResponse represents the Al Adhan calendar response.
// The calendar endpoint returns one Data object per day of the month, in date order.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// Data holds the timings, date info, and metadata for one day.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains the named clock times as "HH:MM" strings.
// The API may append a zone annotation like " (+03)" which is stripped during parsing.
type Timings struct {
	Imsak    string `json:"Imsak,omitempty"`
	Fajr     string `json:"Fajr"`
	Sunrise  string `json:"Sunrise"`
	Dhuhr    string `json:"Dhuhr"`
	Asr      string `json:"Asr"`
	Sunset   string `json:"Sunset,omitempty"`
	Maghrib  string `json:"Maghrib"`
	Isha     string `json:"Isha"`
	Midnight string `json:"Midnight,omitempty"`
}

// DateInfo contains the Gregorian and Hijri representations of the day.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (lunar) date.
type HijriDate struct {
	Date    string     `json:"date"` // e.g. "01-09-1447"
	Day     string     `json:"day"`
	Weekday Weekday    `json:"weekday"`
	Month   HijriMonth `json:"month"`
	Year    string     `json:"year"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "Ramaḍān"
	Ar     string `json:"ar"`
}

// Weekday carries the weekday name in the languages the API returns.
type Weekday struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
}

// GregorianDate represents the Gregorian date.
type GregorianDate struct {
	Date    string         `json:"date"` // "DD-MM-YYYY"
	Day     string         `json:"day"`
	Weekday Weekday        `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
