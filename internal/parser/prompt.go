package parser

// BuildPassportPrompt returns the fixed extraction prompt for passport
// documents. Every call site uses this one prompt; the field set below is the
// canonical schema.
func BuildPassportPrompt() string {
	return `You are a passport data extraction assistant. Analyze the provided passport document and extract the identity fields into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Normalize all dates to ISO 8601 format (YYYY-MM-DD). Strip any surrounding text.
- "nationality" must be the 3-letter ISO 3166-1 alpha-3 country code (e.g., "USA", "DEU").
- The MRZ lines must conform to ICAO 9303: uppercase letters, digits, and "<" filler only. A TD3 passport has two 44-character lines.
- Transcribe the MRZ exactly as printed. Do not invent characters.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. Just the raw JSON object.

Return two top-level keys: "data" and "confidence_scores".

The "data" object must follow this schema:
{
  "full_name": "",
  "date_of_birth": "",
  "passport_number": "",
  "nationality": "",
  "date_of_issue": "",
  "date_of_expiry": "",
  "place_of_birth": "",
  "issuing_authority": "",
  "gender": "",
  "mrz": {
    "line1": "",
    "line2": ""
  }
}

The "confidence_scores" object maps each field name above (excluding "mrz") to a float between 0.0 and 1.0 indicating your confidence in the extracted value. Use 0.0 for fields not legible in the document.

If a field is not present or not legible, use an empty string.`
}
