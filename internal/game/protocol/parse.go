package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var schemas = mustCompile(map[string]string{
	TypeStart:  "start.schema.json",
	TypeAction: "action.schema.json",
})

func mustCompile(files map[string]string) map[string]*jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	for _, name := range files {
		b, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			panic(err)
		}
		if err := c.AddResource(schemaURL(name), bytes.NewReader(b)); err != nil {
			panic(fmt.Errorf("add schema %s: %w", name, err))
		}
	}
	out := make(map[string]*jsonschema.Schema, len(files))
	for typ, name := range files {
		out[typ] = c.MustCompile(schemaURL(name))
	}
	return out
}

func schemaURL(name string) string {
	return "mem://planetwars/schemas/" + name
}

// Parse 解析一条入站报文：JSON -> 按 type 选 schema 校验 -> 解码成强类型。
// 返回的错误都是协议类错误，可以直接回给客户端。
func Parse(raw []byte) (Inbound, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, ErrBadJSON.WithCause(err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrBadJSON
	}
	typ, _ := obj["type"].(string)
	schema, ok := schemas[typ]
	if !ok {
		return nil, ErrUnknownType.WithData("type", typ)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, ErrSchemaViolation.WithData("type", typ).WithCause(err)
	}

	var msg Inbound
	switch typ {
	case TypeStart:
		msg = &StartMessage{}
	case TypeAction:
		msg = &ActionMessage{}
	}
	if err := decode(obj, msg); err != nil {
		return nil, ErrSchemaViolation.WithData("type", typ).WithCause(err)
	}
	return msg, nil
}

func decode(in map[string]any, out Inbound) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
