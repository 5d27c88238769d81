package mcp

import "github.com/mark3labs/mcp-go/mcp"

var decodeToolDef = mcp.NewTool("molecule_decode",
	mcp.WithDescription("Decode a SMILES string (C, N, O, S, P, F, I, Br, Cl; H only inside brackets) into its atom/bond graph, "+
		"ring counts and cyclic, aromatic and alcohol indices. Set store=true to persist the result."),
	mcp.WithString("smiles", mcp.Required(), mcp.Description("SMILES string, e.g. O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O")),
	mcp.WithString("name", mcp.Description("Label for the molecule, e.g. a CSD refcode")),
	mcp.WithBoolean("store", mcp.Description("Persist the decoded molecule (default false)")),
)

var fetchToolDef = mcp.NewTool("molecule_fetch",
	mcp.WithDescription("Fetch a stored molecule by id or by name. Names are not unique; the newest match wins."),
	mcp.WithString("id", mcp.Description("Molecule ULID")),
	mcp.WithString("name", mcp.Description("Molecule name (case-insensitive)")),
	mcp.WithBoolean("include_deleted", mcp.Description("Also match soft-deleted molecules")),
	mcp.WithBoolean("include_graph", mcp.Description("Include atoms, bonds and index sets (default true)")),
)

var listToolDef = mcp.NewTool("molecule_list",
	mcp.WithDescription("List stored molecules newest first, without their graphs."),
	mcp.WithString("batch_id", mcp.Description("Only molecules produced by this batch")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted molecules")),
)

var deleteToolDef = mcp.NewTool("molecule_delete",
	mcp.WithDescription("Soft-delete a stored molecule by id or name."),
	mcp.WithString("id", mcp.Description("Molecule ULID")),
	mcp.WithString("name", mcp.Description("Molecule name")),
)

var purgeToolDef = mcp.NewTool("molecule_purge",
	mcp.WithDescription("Permanently remove soft-deleted molecules."),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge molecules deleted more than N days ago")),
)

var exportToolDef = mcp.NewTool("molecule_export",
	mcp.WithDescription("Export stored molecules as JSONL or as a CSV ring report "+
		"(Refcode, SMILES, Aromatic Rings, Non Aromatic Rings, Rings, AminoAcid, Charged, Atoms, Bonds)."),
	mcp.WithString("path", mcp.Description("Output file; must sit directly in ~/.molgraph/exports or an allowed path")),
	mcp.WithString("format", mcp.Enum("jsonl", "csv"), mcp.Description("Output format (default from extension, else jsonl)")),
	mcp.WithString("batch_id", mcp.Description("Only molecules produced by this batch")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted molecules")),
)

var batchRunToolDef = mcp.NewTool("batch_run",
	mcp.WithDescription("Decode every row of a CSV file with a smiles,name header. "+
		"Rows that fail are recorded and reported; they never stop the batch."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Input CSV; must sit directly in ~/.molgraph/exports or an allowed path")),
	mcp.WithNumber("workers", mcp.Description("Concurrent decoders (default from config)")),
)

var batchFailuresToolDef = mcp.NewTool("batch_failures",
	mcp.WithDescription("Show a batch run and the input rows it could not decode."),
	mcp.WithString("batch_id", mcp.Required(), mcp.Description("Batch ULID returned by batch_run")),
)
