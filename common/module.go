package common

type Module string

const (
	ModuleGRC20 Module = "grc20"
)

func (m Module) String() string {
	return string(m)
}
