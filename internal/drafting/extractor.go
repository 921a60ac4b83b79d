package drafting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TheSummerRain/wutongjiebang/internal/models"
)

// ErrExtraction возвращается, когда ответ модели не разбирается как JSON.
// Вызывающая сторона обязана оставить прежний черновик без изменений.
var ErrExtraction = errors.New("extraction failed: malformed model output")

// stripFences убирает обрамление ```json ... ``` из ответа модели.
// Поддержка JSON-режима у сервиса не гарантирует отсутствие ограждений.
func stripFences(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ExtractPatch превращает сырой текст модели в проверенный патч полей.
// Ключи вне схемы требования и значения неподходящего типа отбрасываются;
// complete=false сигнализирует, что часть вывода была отброшена.
func ExtractPatch(raw string) (patch models.FieldPatch, complete bool, err error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &top); err != nil {
		return models.FieldPatch{}, false, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	complete = true
	for key, value := range top {
		switch key {
		case "title":
			complete = setString(&patch.Title, value) && complete
		case "department":
			complete = setString(&patch.Department, value) && complete
		case "region":
			complete = setString(&patch.Region, value) && complete
		case "budget":
			complete = setNumber(&patch.Budget, value) && complete
		case "deadline":
			complete = setString(&patch.Deadline, value) && complete
		case "description":
			complete = setString(&patch.Description, value) && complete
		case "tags":
			var tags []string
			if json.Unmarshal(value, &tags) == nil {
				patch.Tags = tags
			} else {
				complete = false
			}
		default:
			// Неизвестный ключ не попадает в черновик.
			complete = false
		}
	}
	return patch, complete, nil
}

func setString(dst **string, value json.RawMessage) bool {
	var s string
	if json.Unmarshal(value, &s) != nil {
		return false
	}
	*dst = &s
	return true
}

// setNumber принимает число либо числовую строку: модели периодически
// возвращают бюджет в кавычках.
func setNumber(dst **float64, value json.RawMessage) bool {
	var n float64
	if json.Unmarshal(value, &n) == nil {
		*dst = &n
		return true
	}
	var s string
	if json.Unmarshal(value, &s) == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*dst = &parsed
			return true
		}
	}
	return false
}
