package mcpserver

import (
	"context"
	"sort"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/rarian/internal/collection"
	"github.com/Aman-CERP/rarian/internal/kv"
	"github.com/Aman-CERP/rarian/internal/metadata"
	"github.com/Aman-CERP/rarian/internal/query"
	"github.com/Aman-CERP/rarian/internal/queryparser"
	"github.com/Aman-CERP/rarian/internal/uid"
)

// SearchInput is the rarian_search tool's input schema.
type SearchInput struct {
	Collection string `json:"collection" jsonschema:"the collection name to search"`
	Query      string `json:"query" jsonschema:"query text, e.g. 'title:python AND date:[1577836800..]'"`
}

// SearchOutput is the rarian_search tool's output schema.
type SearchOutput struct {
	UUIDs []string `json:"uuids" jsonschema:"matching entry UUIDs"`
}

// GetEntryInput is the rarian_get_entry tool's input schema.
type GetEntryInput struct {
	Collection string `json:"collection" jsonschema:"the collection name to read from"`
	UUID       string `json:"uuid" jsonschema:"the entry UUID to fetch"`
}

// FileRefOutput mirrors entrystore.FileRef in wire form.
type FileRefOutput struct {
	Filekey string            `json:"filekey"`
	Format  map[string]string `json:"format,omitempty"`
}

// MetadataValueOutput is one attribute value in an entry's metadata,
// rendered loosely typed for JSON transport.
type MetadataValueOutput struct {
	Attribute string   `json:"attribute"`
	Str       string   `json:"str,omitempty"`
	Int       string   `json:"int,omitempty"`
	StrList   []string `json:"strlist,omitempty"`
}

// GetEntryOutput is the rarian_get_entry tool's output schema.
type GetEntryOutput struct {
	Files    []FileRefOutput       `json:"files"`
	Metadata []MetadataValueOutput `json:"metadata"`
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	if input.Collection == "" {
		return nil, SearchOutput{}, newInvalidParamsError("collection parameter is required")
	}
	if input.Query == "" {
		return nil, SearchOutput{}, newInvalidParamsError("query parameter is required")
	}

	q, err := queryparser.Parse(input.Query)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}

	var out SearchOutput
	err = s.env.View(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, input.Collection)
		if err != nil {
			return err
		}
		set, err := query.Eval(tx, c, q)
		if err != nil {
			return err
		}
		out.UUIDs = make([]string, 0, len(set))
		for u := range set {
			out.UUIDs = append(out.UUIDs, u.String())
		}
		sort.Strings(out.UUIDs)
		return nil
	})
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}
	return nil, out, nil
}

func (s *Server) handleGetEntry(ctx context.Context, _ *mcp.CallToolRequest, input GetEntryInput) (
	*mcp.CallToolResult,
	GetEntryOutput,
	error,
) {
	if input.Collection == "" {
		return nil, GetEntryOutput{}, newInvalidParamsError("collection parameter is required")
	}
	if input.UUID == "" {
		return nil, GetEntryOutput{}, newInvalidParamsError("uuid parameter is required")
	}

	u, err := uid.Parse(input.UUID)
	if err != nil {
		return nil, GetEntryOutput{}, newInvalidParamsError("uuid is not a valid UUID: " + input.UUID)
	}

	var out GetEntryOutput
	err = s.env.View(func(tx *kv.Tx) error {
		c, err := collection.Open(tx, input.Collection)
		if err != nil {
			return err
		}
		entry, err := c.Get(tx, u)
		if err != nil {
			return err
		}

		out.Files = make([]FileRefOutput, 0, len(entry.Files))
		for _, f := range entry.Files {
			format := make(map[string]string, len(f.Format))
			for k, v := range f.Format {
				format[k.String()] = v
			}
			out.Files = append(out.Files, FileRefOutput{Filekey: f.Filekey, Format: format})
		}

		out.Metadata = make([]MetadataValueOutput, 0, len(entry.Metadata))
		for key, v := range entry.Metadata {
			mv := MetadataValueOutput{Attribute: key.String()}
			switch v.Kind {
			case metadata.KindString:
				mv.Str = v.Str
			case metadata.KindInt:
				mv.Int = strconv.FormatInt(v.Int, 10)
			case metadata.KindStringList:
				mv.StrList = v.StrList
			}
			out.Metadata = append(out.Metadata, mv)
		}
		return nil
	})
	if err != nil {
		return nil, GetEntryOutput{}, MapError(err)
	}
	return nil, out, nil
}
