package entities

// VariantKind tags the closed set of element capability variants.
type VariantKind string

const (
	KindPlain             VariantKind = "plain"
	KindToggleable        VariantKind = "toggleable"
	KindTextInput         VariantKind = "text_input"
	KindSecureTextInput   VariantKind = "secure_text_input"
	KindSelectableStatic  VariantKind = "selectable_static"
	KindSelectableDynamic VariantKind = "selectable_dynamic"
	KindTabular           VariantKind = "tabular"
	KindListLike          VariantKind = "list_like"
	KindStepper           VariantKind = "stepper"
)
