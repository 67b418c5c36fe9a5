// Package gemini implements generation.Translator with Google's Gemini API.
//
// Prompts are rendered from a text/template, either the built-in one or a
// file named by the llm.prompt_template_path setting. The model is asked
// for JSON of the form {"translation": "..."}. API failures are retried with
// exponential backoff; blocked or malformed responses are not.
package gemini
