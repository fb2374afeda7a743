// Package quiz turns a parsed quiz page into a plain-text transcript.
//
// The pipeline has four stages:
//   - Locator: ordered CSS or XPath strategies, first non-empty match wins
//   - QuestionText: prompt headings and paragraphs, or the container text
//   - Choices: label texts, deduplicated, submit controls removed, lettered
//   - Builder: numbered questions with indented choices or a placeholder
//
// Extraction never fails. Missing pieces degrade to an empty choice list,
// the container's own text, or the "No questions found" transcript.
//
// Example Usage:
//
//	text, summary := quiz.NewBuilder(nil).Build(doc)
package quiz
