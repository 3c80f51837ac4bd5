package report

// Schema is the JSON Schema (Draft 2020-12) for the profiler's JSON
// output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/indigo/profile-report.schema.json",
  "title": "Indigo Schema Profile Report",
  "description": "Output schema for indigo profile --format=json",
  "type": "object",
  "required": ["meta", "c", "s", "u", "v"],
  "properties": {
    "meta": { "$ref": "#/$defs/Meta" },
    "c": {
      "type": "object",
      "description": "Occurrence count per key path",
      "additionalProperties": { "type": "integer", "minimum": 0 }
    },
    "s": {
      "type": "object",
      "description": "Raw reservoir sample per key path (duplicates allowed)",
      "additionalProperties": { "$ref": "#/$defs/ValueList" }
    },
    "u": {
      "type": "object",
      "description": "Deduplicated reduction of the sample per key path",
      "additionalProperties": { "$ref": "#/$defs/ValueList" }
    },
    "v": {
      "type": "object",
      "description": "Independently capped unique example values per key path",
      "additionalProperties": { "$ref": "#/$defs/ValueList" }
    }
  },
  "$defs": {
    "Meta": {
      "type": "object",
      "required": ["size", "date", "total", "sha1"],
      "properties": {
        "size": {
          "type": "integer",
          "minimum": 1,
          "description": "Configured per-path reservoir size"
        },
        "date": {
          "type": "string",
          "format": "date-time",
          "description": "Report generation timestamp (RFC 3339)"
        },
        "total": {
          "type": "integer",
          "minimum": 0,
          "description": "Number of documents processed"
        },
        "sha1": {
          "type": "string",
          "pattern": "^[0-9a-f]{40}$",
          "description": "Hex SHA-1 digest of the input"
        }
      }
    },
    "ValueList": {
      "type": "array",
      "items": {
        "type": ["string", "number", "boolean", "null"]
      }
    }
  }
}`
