package analysis

import (
	"strings"
)

// systemPrompts 各类别的系统提示词
var systemPrompts = map[Category]string{
	CategoryComprehensive: "You are a historian specializing in the 1922 Great Fire of Smyrna. " +
		"Answer using only the evidence provided, citing specific people, places and events. " +
		"Give a balanced account that reflects all perspectives present in the sources.",
	CategoryCharacterAnalysis: "You are a historian specializing in the 1922 Great Fire of Smyrna. " +
		"Analyze the person in question using only the evidence provided. " +
		"Treat sections marked AUTHORITATIVE CHARACTER PROFILE as the definitive account of that person; " +
		"other evidence may add detail but must not contradict a profile.",
	CategoryStoryProgression: "You are a historian specializing in the 1922 Great Fire of Smyrna. " +
		"Reconstruct the sequence of events from the evidence provided, " +
		"keeping causes and consequences in their documented order.",
	CategoryRelationships: "You are a historian specializing in the 1922 Great Fire of Smyrna. " +
		"Describe the relationships between the people in question using only the evidence provided, " +
		"including how those relationships shifted over the course of events.",
	CategoryThemes: "You are a historian specializing in the 1922 Great Fire of Smyrna. " +
		"Discuss the themes raised by the question using only the evidence provided, " +
		"grounding every interpretive claim in a cited source passage.",
	CategoryTemporal: "You are a historian specializing in the 1922 Great Fire of Smyrna. " +
		"Answer with precise dates and chronology drawn only from the evidence provided. " +
		"If the sources disagree on timing, say so explicitly.",
}

// insufficientContextNote 证据为空时注入的兜底指令
const insufficientContextNote = "No supporting evidence was retrieved for this question. " +
	"State clearly that the available sources are insufficient to answer, and do not speculate."

// SystemPrompt 返回类别对应的系统提示词
func SystemPrompt(category Category) string {
	if p, ok := systemPrompts[category]; ok {
		return p
	}
	return systemPrompts[CategoryComprehensive]
}

// BuildUserPrompt 组装用户提示词
// 权威档案带显式标记置于最前，其余证据带来源标注依序排列
func BuildUserPrompt(query string, bundle *EvidenceBundle) string {
	var sb strings.Builder

	if bundle.Empty() {
		sb.WriteString(insufficientContextNote)
		sb.WriteString("\n\nQuestion: ")
		sb.WriteString(query)
		return sb.String()
	}

	sb.WriteString("Evidence:\n\n")
	for _, item := range bundle.Items {
		if item.Authoritative() {
			sb.WriteString("=== AUTHORITATIVE CHARACTER PROFILE")
			if item.Entity != "" {
				sb.WriteString(": ")
				sb.WriteString(item.Entity)
			}
			sb.WriteString(" ===\n")
		} else {
			sb.WriteString("--- ")
			sb.WriteString(sourceLabel(item))
			sb.WriteString(" ---\n")
		}
		sb.WriteString(item.Text)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(query)
	return sb.String()
}

// sourceLabel 非权威证据的来源标注
func sourceLabel(item EvidenceItem) string {
	var parts []string
	switch item.SourceKind {
	case SourceRelationship:
		parts = append(parts, "Relationship")
	case SourceEvent:
		parts = append(parts, "Historical event")
	default:
		parts = append(parts, "Passage")
	}
	if item.SourceDocument != "" {
		parts = append(parts, "from "+item.SourceDocument)
	}
	return strings.Join(parts, " ")
}
