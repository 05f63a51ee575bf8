package common

const (
	KilnVersion       = "0.1.0"
	ConfigFileName    = "kiln.toml"
	DefaultOutputPath = "out.ll"
	BlockLabelPrefix  = "bb"
	TrapFuncName      = "kiln.trap"
)
