package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("news_create",
	mcp.WithDescription("Create a news post in the content directory and rebuild the index. Optionally copies a hero image into the dated uploads tree."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
	mcp.WithString("date", mcp.Description("Publication date YYYY-MM-DD (default: today)")),
	mcp.WithString("slug", mcp.Description("URL slug (default: derived from title)")),
	mcp.WithString("author", mcp.Description("Author name")),
	mcp.WithString("summary", mcp.Description("Short summary used for the excerpt")),
	mcp.WithString("body", mcp.Description("Markdown body")),
	mcp.WithArray("tags", mcp.Description("Tag list")),
	mcp.WithString("image_path", mcp.Description("Local image file to copy as the hero image")),
	mcp.WithString("image_alt", mcp.Description("Alt text for the hero image (default: title)")),
	mcp.WithBoolean("draft", mcp.Description("Mark the post as a draft")),
	mcp.WithBoolean("force", mcp.Description("Overwrite an existing post with the same date and slug")),
	mcp.WithBoolean("bundle", mcp.Description("Also write an upload zip into the output directory")),
)

var slugifyToolDef = mcp.NewTool("news_slugify",
	mcp.WithDescription("Derive the URL slug for a title. Pure utility, no side effects."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Title to slugify")),
)

var validateToolDef = mcp.NewTool("news_validate",
	mcp.WithDescription("Validate every post in the content directory and rebuild the index. Returns per-file errors and warnings."),
)

var rebuildIndexToolDef = mcp.NewTool("news_rebuild_index",
	mcp.WithDescription("Re-scan the content directory and rewrite the index document. No other side effects."),
)

var importToolDef = mcp.NewTool("news_import",
	mcp.WithDescription("Import upload bundles. With no path, processes every zip waiting in the incoming directory."),
	mcp.WithString("path", mcp.Description("Path to a single bundle zip (default: scan incoming)")),
)

var checkBundleToolDef = mcp.NewTool("news_check_bundle",
	mcp.WithDescription("Inspect a bundle zip without importing it: reports the posts and assets it would merge and any problems."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path to the bundle zip")),
)

var listToolDef = mcp.NewTool("news_list",
	mcp.WithDescription("List the posts in the current index."),
)
