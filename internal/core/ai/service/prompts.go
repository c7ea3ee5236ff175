package service

// Purposes label calls in logs and completion-cache keys.
const (
	PurposeClassify  = "classify_ingredients"
	PurposeCategory  = "determine_category"
	PurposeTitle     = "suggest_title"
	PurposeFormat    = "format_recipe"
	PurposeExtract   = "extract_recipe"
	PurposeTranslate = "translate_recipe"
)

// CacheablePurposes are deterministic enough to memoize.
var CacheablePurposes = []string{PurposeClassify, PurposeCategory, PurposeTitle}

const classifyPrompt = `You are a kitchen assistant. The user sends a list of ingredients, one per line.
For every line return its name, amount, unit and a product category
(vegetables, fruit, meat, fish, dairy, grains, spices, baking, drinks, other).
Keep the order of the input and keep names in the language they were written in.
Return ONLY a JSON object of the form:
{"ingredients":[{"name":"...","amount":"...","unit":"...","category":"..."}]}`

const categoryPrompt = `You classify dishes. Given a list of ingredients, choose the single best
dish category from exactly this list: %s.
Return ONLY a JSON object of the form {"category":"<one token from the list>"}`

const titlePrompt = `You name home recipes. Given the ingredients and the dish category, suggest
one short appetizing recipe title in Russian, at most 60 characters, without quotes or emoji.
Return ONLY a JSON object of the form {"title":"..."}`

const formatPrompt = `You format recipes for a Telegram chat. Render the recipe below as plain text
in Russian: title on the first line, then the category, then a bulleted ingredient list, then the
instructions if present. Do not invent ingredients. Do not use Markdown or HTML.
End with the line "ID: <id>".`

const extractPrompt = `You extract cooking recipes from video transcripts.
Read the transcript and return ONLY a JSON object with these fields:
{
  "name": "recipe name",
  "cookingTime": "total cooking time; estimate it from the complexity if it is not mentioned",
  "ingredients": ["ingredient with amount", "..."],
  "instructions": ["step one", "step two", "..."],
  "language": "ru or en, the language the transcript is spoken in"
}
Rules:
- keep ingredients and steps in the order they appear;
- any pork ingredient (pork, bacon, ham and the like) must be written as "meat"; pork itself must never appear;
- do not add commentary outside the JSON object.`

const translatePrompt = `You translate recipes into Russian.
You receive a recipe as a JSON object. Return ONLY a JSON object with exactly the same fields
(name, cookingTime, ingredients, instructions, language). Translate every text field into Russian,
keep numbers and units intact, keep the order of ingredients and steps, and set "language" to "ru".
Any pork ingredient must be written as "meat". An ingredient that reads exactly "meat" must stay
"meat" in English, untranslated.`
