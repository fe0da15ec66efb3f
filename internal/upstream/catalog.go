package upstream

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pikachu/internal/config"
)

// Endpoint names, one per local route.
const (
	EndpointNASAAPOD      = "nasa/apod"
	EndpointPokemon       = "pokemon/{name}"
	EndpointRandomPokemon = "pokemon/random"
	EndpointHoroscope     = "horoscope/{sign}"
	EndpointMoonPhase     = "astronomy/moon-phase"
	EndpointISSLocation   = "astronomy/iss-location"
	EndpointPeopleInSpace = "astronomy/people-in-space"

	endpointMoonPhaseList = "astronomy/moon-phase/phase-list"
	endpointMoonFallback  = "astronomy/moon-phase/fallback"
)

const (
	varDate             = "date"
	moonPhaseDateLayout = "2006-01-02"
	moonImageFormat     = "png"
)

// Catalog holds the endpoint table keyed by endpoint name.
type Catalog map[string]*EndpointSpec

type catalogOptions struct {
	now  func() time.Time
	intn func(n int) int
}

type Option func(*catalogOptions)

// WithClock overrides the clock used for the moon phase observation date.
func WithClock(now func() time.Time) Option {
	return func(o *catalogOptions) { o.now = now }
}

// WithRandom overrides the source used to pick random pokemon. intn must
// return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(o *catalogOptions) { o.intn = intn }
}

// RandomPokemonID picks an id uniformly from [1, maxID].
func RandomPokemonID(intn func(n int) int, maxID int) int {
	return intn(maxID) + 1
}

func base(u string) string {
	return strings.TrimRight(u, "/")
}

// NewCatalog builds the endpoint table from cfg.
func NewCatalog(cfg *config.Config, opts ...Option) Catalog {
	o := catalogOptions{now: time.Now, intn: rand.IntN}
	for _, opt := range opts {
		opt(&o)
	}

	observer := Observer{
		Location:  cfg.ObserverLocation,
		Latitude:  cfg.ObserverLatitude,
		Longitude: cfg.ObserverLongitude,
	}
	pokemonURL := base(cfg.PokeAPIBaseURL) + "/api/v2/pokemon/{name}"

	c := Catalog{
		EndpointNASAAPOD: {
			Name:        EndpointNASAAPOD,
			URLTemplate: base(cfg.NASABaseURL) + "/planetary/apod",
			Method:      http.MethodGet,
			Auth:        APIKey{Param: "api_key", Value: cfg.NASAAPIKey},
		},
		EndpointPokemon: {
			Name:        EndpointPokemon,
			URLTemplate: pokemonURL,
			Method:      http.MethodGet,
			ShapeRequest: TransformParams(func(p Params) (Params, error) {
				p["name"] = strings.ToLower(p["name"])
				return p, nil
			}),
			ShapeResponse: ShapePokemon,
		},
		EndpointRandomPokemon: {
			Name:        EndpointRandomPokemon,
			URLTemplate: pokemonURL,
			Method:      http.MethodGet,
			ShapeRequest: TransformParams(func(p Params) (Params, error) {
				p["name"] = strconv.Itoa(RandomPokemonID(o.intn, cfg.PokemonMaxID))
				return p, nil
			}),
			ShapeResponse: ShapePokemon,
		},
		EndpointHoroscope: {
			Name:        EndpointHoroscope,
			URLTemplate: base(cfg.HoroscopeBaseURL) + "/api/v1/get-horoscope/daily?sign={sign}&day=today",
			Method:      http.MethodGet,
		},
		EndpointISSLocation: {
			Name:        EndpointISSLocation,
			URLTemplate: base(cfg.OpenNotifyBaseURL) + "/iss-now.json",
			Method:      http.MethodGet,
		},
		EndpointPeopleInSpace: {
			Name:        EndpointPeopleInSpace,
			URLTemplate: base(cfg.OpenNotifyBaseURL) + "/astros.json",
			Method:      http.MethodGet,
		},
	}

	phaseListURL := base(cfg.MoonPhaseBaseURL) + "/v1/moonphases/"
	switch cfg.MoonPhaseMode {
	case config.MoonPhasePhaseList:
		c[EndpointMoonPhase] = &EndpointSpec{
			Name:          endpointMoonPhaseList,
			URLTemplate:   phaseListURL,
			Method:        http.MethodGet,
			ShapeResponse: ShapeMoonPhaseList,
		}
	default:
		c[EndpointMoonPhase] = &EndpointSpec{
			Name:        EndpointMoonPhase,
			URLTemplate: base(cfg.AstronomyAPIBaseURL) + "/api/v2/studio/moon-phase",
			Method:      http.MethodPost,
			Auth: BasicAuth{
				Username: cfg.AstronomyAPIID,
				Password: cfg.AstronomyAPISecret,
			},
			ShapeRequest:  moonImageRequest(observer, o.now),
			ShapeResponse: shapeMoonImage(observer),
			Fallback: &EndpointSpec{
				Name:          endpointMoonFallback,
				URLTemplate:   phaseListURL,
				Method:        http.MethodGet,
				ShapeResponse: shapeMoonFallback(observer),
			},
		}
	}
	return c
}

type moonStudioRequest struct {
	Format string `json:"format"`
	Style  struct {
		MoonStyle       string `json:"moonStyle"`
		BackgroundStyle string `json:"backgroundStyle"`
		BackgroundColor string `json:"backgroundColor"`
		HeadingColor    string `json:"headingColor"`
		TextColor       string `json:"textColor"`
	} `json:"style"`
	Observer struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Date      string  `json:"date"`
	} `json:"observer"`
	View struct {
		Type        string `json:"type"`
		Orientation string `json:"orientation"`
	} `json:"view"`
}

// moonImageRequest posts the observer and today's local date to the
// imaging API.
func moonImageRequest(obs Observer, now func() time.Time) RequestShaper {
	return func(spec *EndpointSpec, _ Params) (*Request, error) {
		date := now().Format(moonPhaseDateLayout)

		var payload moonStudioRequest
		payload.Format = moonImageFormat
		payload.Style.MoonStyle = "default"
		payload.Style.BackgroundStyle = "stars"
		payload.Style.BackgroundColor = "#000000"
		payload.Style.HeadingColor = "#ffffff"
		payload.Style.TextColor = "#ffffff"
		payload.Observer.Latitude = obs.Latitude
		payload.Observer.Longitude = obs.Longitude
		payload.Observer.Date = date
		payload.View.Type = "portrait-simple"
		payload.View.Orientation = "south-up"

		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return &Request{
			Method: spec.Method,
			URL:    spec.URLTemplate,
			Header: http.Header{"Content-Type": []string{"application/json"}},
			Body:   body,
			Vars:   map[string]string{varDate: date},
		}, nil
	}
}
