package bani

import (
	"log"

	"github.com/tidwall/gjson"
)

// Debug включает трассировку каждого документа, прошедшего проверку.
var Debug = false

var (
	requiredProps        = []string{"name", "modificationDate", "filetype", "options", "sprites", "defaults"}
	requiredOptionsProps = []string{"looping", "continuous", "blockingbounds", "center"}
	requiredDefaultProps = []string{"BODY", "HEAD", "HAT"}
)

// propertyAliases: допустимые написания обязательных полей.
// Редактор уровней пишет "modificatedDate".
var propertyAliases = map[string][]string{
	"modificationDate": {"modificatedDate"},
}

// Validate проверяет структуру документа (строгий JSON) и возвращает первое
// нарушение: сначала поля верхнего уровня, затем options, затем defaults.
// Документ не меняется.
func Validate(raw []byte) error {
	root := gjson.ParseBytes(raw)
	if err := checkProperties(root, requiredProps, ""); err != nil {
		return err
	}

	options := root.Get("options")
	if err := checkProperties(options, requiredOptionsProps, "options."); err != nil {
		return err
	}
	if err := checkProperties(root.Get("defaults"), requiredDefaultProps, "defaults."); err != nil {
		return err
	}

	if bounds := options.Get("blockingbounds"); !bounds.IsArray() || len(bounds.Array()) != 4 {
		return ErrInvalidBlockingBounds
	}
	if !root.Get("sprites").IsObject() {
		return ErrInvalidSprites
	}

	if Debug {
		fields := 0
		root.ForEach(func(_, _ gjson.Result) bool {
			fields++
			return true
		})
		log.Printf("[*] BANI %q validated: %d top-level fields", root.Get("name").String(), fields)
	}
	return nil
}

// checkProperties ищет props в obj. Значение, которое не является объектом,
// не содержит ни одного поля и проваливает проверку на первом из них.
func checkProperties(obj gjson.Result, props []string, prefix string) error {
	for _, prop := range props {
		if hasProperty(obj, prop) {
			continue
		}
		found := false
		for _, alias := range propertyAliases[prop] {
			if hasProperty(obj, alias) {
				found = true
				break
			}
		}
		if !found {
			return &MissingPropertyError{Path: prefix + prop}
		}
	}
	return nil
}

func hasProperty(obj gjson.Result, prop string) bool {
	return obj.IsObject() && obj.Get(pathKey(prop)).Exists()
}
