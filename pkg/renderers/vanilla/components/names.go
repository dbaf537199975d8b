package components

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameText            = "text"
	NameChip            = "chip"
	NameSelect          = "select"
	NameRichText        = "rich_text"
	NameSingleFieldList = "single_field_list"
	NameDatagrid        = "datagrid"
)
