package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/yani-rivera/UrbanGrowthSDG11/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Добавляем все схемы как ресурсы, чтобы они могли
	// ссылаться друг на друга через `$ref`
	for _, root := range []string{"events", "rulesets"} {
		err := fs.WalkDir(schemas.SchemasFS, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".json") {
				file, openErr := schemas.SchemasFS.Open(path)
				if openErr != nil {
					return openErr
				}
				defer file.Close()
				if err := compiler.AddResource(path, file); err != nil {
					log.Fatalf("failed to add schema resource %s: %v", path, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("error walking and adding schema resources: %v", err)
		}
	}

	// Снова обходим для компиляции и регистрации
	for _, root := range []string{"events", "rulesets"} {
		err := fs.WalkDir(schemas.SchemasFS, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".json") {
				schema, compileErr := compiler.Compile(path)
				if compileErr != nil {
					log.Fatalf("could not compile schema %s: %v", path, compileErr)
				}
				key := generateKeyFromPath(path)
				compiledSchemas[key] = schema
			}
			return nil
		})
		if err != nil {
			log.Fatalf("error walking and compiling schemas: %v", err)
		}
	}
}

// generateKeyFromPath преобразует путь вида "events/raw-listing-batch/v1.json"
// в ключ вида "RawListingBatchEvent/1.0.0"; для схем из rulesets суффикс
// Event не добавляется.
func generateKeyFromPath(path string) string {
	isEvent := strings.HasPrefix(path, "events/")
	trimmedPath := strings.TrimPrefix(path, "events/")
	trimmedPath = strings.TrimPrefix(trimmedPath, "rulesets/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)

	var nameBuilder strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		nameBuilder.WriteString(caser.String(p))
	}
	if isEvent {
		nameBuilder.WriteString("Event")
	}

	version := strings.Replace(parts[1], "v", "", 1) + ".0.0"
	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// ValidateEvent принимает тело сообщения и его метаданные и проверяет по схеме.
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}
	return validateJSON(schema, body)
}

// ValidateRuleset проверяет JSON набора правил агентства по схеме v1.
// Нарушение схемы — фатальная ошибка конфигурации для загрузчика.
func ValidateRuleset(body []byte) error {
	schema, ok := compiledSchemas["AgencyRuleset/1.0.0"]
	if !ok {
		return fmt.Errorf("agency ruleset schema is not registered")
	}
	return validateJSON(schema, body)
}

func validateJSON(schema *jsonschema.Schema, body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
