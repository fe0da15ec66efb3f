package upstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	errNotJSON     = errors.New("body is not valid JSON")
	errNoMoonPhase = errors.New("no moon phase information found")
)

// PassThrough returns the upstream body unchanged once it is known to be JSON.
func PassThrough(_ *Request, body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, errNotJSON
	}
	return body, nil
}

func parse(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errNotJSON
	}
	return gjson.ParseBytes(body), nil
}

func field(doc gjson.Result, path string) (gjson.Result, error) {
	r := doc.Get(path)
	if !r.Exists() {
		return r, fmt.Errorf("missing field %q", path)
	}
	return r, nil
}

// raw copies a field's JSON text so the value is emitted exactly as received.
func raw(r gjson.Result) json.RawMessage {
	return json.RawMessage(r.Raw)
}

// pluck collects the string at sub from every element of the array at path.
func pluck(doc gjson.Result, path, sub string) ([]string, error) {
	arr, err := field(doc, path)
	if err != nil {
		return nil, err
	}
	if !arr.IsArray() {
		return nil, fmt.Errorf("field %q is not an array", path)
	}
	out := make([]string, 0, len(arr.Array()))
	for i, item := range arr.Array() {
		v := item.Get(sub)
		if v.Type != gjson.String {
			return nil, fmt.Errorf("missing string %q in %s[%d]", sub, path, i)
		}
		out = append(out, v.String())
	}
	return out, nil
}

// encode marshals without HTML escaping and without a trailing newline.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type pokemonView struct {
	ID        json.RawMessage `json:"id"`
	Name      json.RawMessage `json:"name"`
	Height    json.RawMessage `json:"height"`
	Weight    json.RawMessage `json:"weight"`
	Types     []string        `json:"types"`
	Abilities []string        `json:"abilities"`
	Sprite    json.RawMessage `json:"sprite"`
}

// ShapePokemon projects a PokeAPI document onto
// {id, name, height, weight, types, abilities, sprite}.
func ShapePokemon(_ *Request, body []byte) ([]byte, error) {
	doc, err := parse(body)
	if err != nil {
		return nil, err
	}

	var view pokemonView
	scalars := []struct {
		path string
		dst  *json.RawMessage
	}{
		{"id", &view.ID},
		{"name", &view.Name},
		{"height", &view.Height},
		{"weight", &view.Weight},
		{"sprites.front_default", &view.Sprite},
	}
	for _, s := range scalars {
		r, err := field(doc, s.path)
		if err != nil {
			return nil, err
		}
		*s.dst = raw(r)
	}

	if view.Types, err = pluck(doc, "types", "type.name"); err != nil {
		return nil, err
	}
	if view.Abilities, err = pluck(doc, "abilities", "ability.name"); err != nil {
		return nil, err
	}
	return encode(view)
}

// Observer is the fixed location moon phase requests are made for.
type Observer struct {
	Location  string
	Latitude  float64
	Longitude float64
}

type moonImageView struct {
	Location  string          `json:"location"`
	Date      string          `json:"date"`
	ImageURL  json.RawMessage `json:"imageUrl"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
}

func shapeMoonImage(obs Observer) ResponseShaper {
	return func(req *Request, body []byte) ([]byte, error) {
		doc, err := parse(body)
		if err != nil {
			return nil, err
		}
		img, err := field(doc, "data.imageUrl")
		if err != nil {
			return nil, err
		}
		return encode(moonImageView{
			Location:  obs.Location,
			Date:      req.Vars[varDate],
			ImageURL:  raw(img),
			Latitude:  obs.Latitude,
			Longitude: obs.Longitude,
		})
	}
}

type moonPhaseView struct {
	Phase json.RawMessage `json:"phase"`
	Date  json.RawMessage `json:"date"`
	Time  json.RawMessage `json:"time"`
}

type moonFallbackView struct {
	Location string          `json:"location"`
	Phase    json.RawMessage `json:"phase"`
	Date     json.RawMessage `json:"date"`
	Time     json.RawMessage `json:"time"`
	Source   string          `json:"source"`
}

func latestPhase(body []byte) (moonPhaseView, error) {
	var view moonPhaseView
	doc, err := parse(body)
	if err != nil {
		return view, err
	}
	if !doc.IsArray() {
		return view, errors.New("expected a list of moon phases")
	}
	phases := doc.Array()
	if len(phases) == 0 {
		return view, errNoMoonPhase
	}
	first := phases[0]
	for _, f := range []struct {
		path string
		dst  *json.RawMessage
	}{
		{"Phase", &view.Phase},
		{"Date", &view.Date},
		{"Time", &view.Time},
	} {
		r, err := field(first, f.path)
		if err != nil {
			return view, err
		}
		*f.dst = raw(r)
	}
	return view, nil
}

// ShapeMoonPhaseList returns {phase, date, time} for the most recent entry.
func ShapeMoonPhaseList(_ *Request, body []byte) ([]byte, error) {
	view, err := latestPhase(body)
	if err != nil {
		return nil, err
	}
	return encode(view)
}

func shapeMoonFallback(obs Observer) ResponseShaper {
	return func(_ *Request, body []byte) ([]byte, error) {
		view, err := latestPhase(body)
		if err != nil {
			return nil, err
		}
		return encode(moonFallbackView{
			Location: obs.Location,
			Phase:    view.Phase,
			Date:     view.Date,
			Time:     view.Time,
			Source:   "fallback",
		})
	}
}
