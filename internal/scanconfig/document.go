package scanconfig

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/MeKo-Tech/scanbridge/internal/barcode"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Skipped is a document key that was recognized or not, but not applied.
type Skipped struct {
	Key string
	Err error
}

// ApplyReport describes the outcome of a best-effort document merge.
type ApplyReport struct {
	Applied []string
	Skipped []Skipped
}

func (r *ApplyReport) record(key string, err error) {
	if err != nil {
		r.Skipped = append(r.Skipped, Skipped{Key: key, Err: err})
		return
	}
	r.Applied = append(r.Applied, key)
}

// NormalizeColors rewrites hex color strings under ColorKeys as packed
// integers. Keys holding an unparseable color are removed and reported.
func NormalizeColors(doc string) (string, []Skipped, error) {
	var skipped []Skipped
	for _, key := range ColorKeys {
		v := gjson.Get(doc, key)
		if v.Type != gjson.String {
			continue
		}
		var err error
		c, perr := ParseColor(v.Str)
		if perr != nil {
			skipped = append(skipped, Skipped{Key: key, Err: fieldErr(key, v.Str, perr)})
			doc, err = sjson.Delete(doc, key)
		} else {
			doc, err = sjson.Set(doc, key, int64(c))
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	}
	return doc, skipped, nil
}

// ApplyDocument merges a bulk configuration document into c.
//
// Keys are applied in document order, each independently: an invalid value
// skips that key only. The document as a whole is rejected with
// ErrMalformedDocument when it is not a JSON object, or when it is a
// non-empty object without a single recognized key. On rejection c is
// left in whatever state the caller passed; Store.ApplyDocument discards it.
func ApplyDocument(c *Config, doc string) (ApplyReport, error) {
	var rep ApplyReport
	if !gjson.Valid(doc) {
		return rep, fmt.Errorf("%w: not valid JSON", ErrMalformedDocument)
	}
	root := gjson.Parse(doc)
	if !root.IsObject() {
		return rep, fmt.Errorf("%w: top level is not an object", ErrMalformedDocument)
	}

	doc, skipped, err := NormalizeColors(doc)
	if err != nil {
		return rep, err
	}
	rep.Skipped = append(rep.Skipped, skipped...)
	root = gjson.Parse(doc)

	total, recognized := 0, len(skipped)
	root.ForEach(func(k, v gjson.Result) bool {
		total++
		key := k.String()
		switch {
		case key == "decoder":
			recognized++
			applyDecoder(c, v, &rep)
		default:
			f, ok := lookup(topLevelFields, key)
			if !ok {
				rep.record(key, ErrUnknownField)
				return true
			}
			recognized++
			rep.record(key, f.applyJSON(c, v))
		}
		return true
	})
	if total+len(skipped) > 0 && recognized == 0 {
		return rep, fmt.Errorf("%w: no applicable keys", ErrMalformedDocument)
	}
	return rep, nil
}

func applyDecoder(c *Config, v gjson.Result, rep *ApplyReport) {
	if !v.IsObject() {
		rep.record("decoder", fieldErr("decoder", v.Raw, ErrInvalidValue))
		return
	}
	v.ForEach(func(k, x gjson.Result) bool {
		key := k.String()
		path := "decoder." + key
		if f, ok := lookup(decoderFields, key); ok {
			rep.record(path, f.applyJSON(c, x))
			return true
		}
		if key == "customOptions" {
			applyCustomOptions(c, x, rep)
			return true
		}
		t, ok := barcode.TypeFromConfigKey(key)
		if !ok {
			rep.record(path, ErrUnknownField)
			return true
		}
		applySymbology(c, t, x, path, rep)
		return true
	})
}

func applyCustomOptions(c *Config, v gjson.Result, rep *ApplyReport) {
	if !v.IsObject() {
		rep.record("decoder.customOptions", ErrInvalidValue)
		return
	}
	v.ForEach(func(k, x gjson.Result) bool {
		path := "decoder.customOptions." + k.String()
		n, err := decodeInt(x)
		if err == nil {
			err = c.SetCustomOption(k.String(), n)
		}
		rep.record(path, err)
		return true
	})
}

func applySymbology(c *Config, t barcode.Type, v gjson.Result, path string, rep *ApplyReport) {
	if !v.IsObject() {
		rep.record(path, fieldErr(path, v.Raw, ErrInvalidValue))
		return
	}
	cur := c.Decoder.Symbologies[t]
	minLen, maxLen := cur.MinLength, cur.MaxLength
	rangeErr, rangeSet := error(nil), false

	v.ForEach(func(k, x gjson.Result) bool {
		sub := path + "." + k.String()
		switch k.String() {
		case "enabled":
			b, err := decodeBool(x)
			if err == nil {
				err = c.SetTypeEnabled(t, b)
			}
			rep.record(sub, err)
		case "minimumLength", "maximumLength":
			n, err := decodeInt(x)
			if err != nil {
				rangeErr = fieldErr(sub, x.Raw, err)
				break
			}
			rangeSet = true
			if k.String() == "minimumLength" {
				minLen = n
			} else {
				maxLen = n
			}
		case "checksum":
			n, err := decodeInt(x)
			if err == nil {
				err = c.SetChecksum(t, n)
			}
			rep.record(sub, err)
		case "dpmMode":
			rep.record(sub, setSymbologyFlag(c, t, x, t.SupportsDPM(), func(s *Symbology) *bool { return &s.DPMMode }))
		case "expandToUPCA":
			rep.record(sub, setSymbologyFlag(c, t, x, t.SupportsExpandToUPCA(), func(s *Symbology) *bool { return &s.ExpandToUPCA }))
		default:
			rep.record(sub, ErrUnknownField)
		}
		return true
	})

	switch {
	case rangeErr != nil:
		rep.record(path+".lengthRange", rangeErr)
	case rangeSet:
		rep.record(path+".lengthRange", c.SetLengthRange(t, minLen, maxLen))
	}
}

func setSymbologyFlag(c *Config, t barcode.Type, x gjson.Result, supported bool, ref func(*Symbology) *bool) error {
	if !supported {
		return fieldErr(t.ConfigKey(), x.Raw, ErrNotSupported)
	}
	b, err := decodeBool(x)
	if err != nil {
		return err
	}
	*ref(&c.Decoder.Symbologies[t]) = b
	return nil
}

// ApplyDocument merges doc into the store atomically. Either the whole
// merged result is published or, on ErrMalformedDocument, nothing is.
func (s *Store) ApplyDocument(doc string) (ApplyReport, error) {
	var rep ApplyReport
	err := s.Update(func(c *Config) error {
		var err error
		rep, err = ApplyDocument(c, doc)
		return err
	})
	for _, sk := range rep.Skipped {
		slog.Debug("Skipped configuration key", "key", sk.Key, "error", sk.Err)
	}
	return rep, err
}

// ExportDocument renders c as a document accepted by ApplyDocument.
func ExportDocument(c *Config) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}
	for _, f := range topLevelFields {
		set(f.name(), f.exportJSON(c))
	}
	for _, f := range decoderFields {
		set("decoder."+f.name(), f.exportJSON(c))
	}
	for _, t := range barcode.Types() {
		s := c.Decoder.Symbologies[t]
		base := "decoder." + t.ConfigKey() + "."
		set(base+"enabled", s.Enabled)
		if t.SupportsLengthRange() {
			set(base+"minimumLength", s.MinLength)
			set(base+"maximumLength", s.MaxLength)
		}
		if t.SupportsChecksum() {
			set(base+"checksum", s.Checksum)
		}
		if t.SupportsDPM() {
			set(base+"dpmMode", s.DPMMode)
		}
		if t.SupportsExpandToUPCA() {
			set(base+"expandToUPCA", s.ExpandToUPCA)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(c.Decoder.CustomOptions)) {
		set("decoder.customOptions."+k, c.Decoder.CustomOptions[k])
	}
	if err != nil {
		return "", fmt.Errorf("export configuration: %w", err)
	}
	return doc, nil
}
