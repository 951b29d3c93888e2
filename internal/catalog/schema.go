package catalog

// fileRoot decodes the top-level blocks of a catalog file. Anything else at
// the top level is a decode error.
type fileRoot struct {
	Assemblies []*assemblyBlock `hcl:"assembly,block"`
}

type assemblyBlock struct {
	Name           string            `hcl:"name,label"`
	Version        string            `hcl:"version,optional"`
	Culture        string            `hcl:"culture,optional"`
	PublicKeyToken string            `hcl:"public_key_token,optional"`
	File           string            `hcl:"file,optional"`
	References     []*referenceBlock `hcl:"reference,block"`
	Types          []*typeBlock      `hcl:"type,block"`
}

type referenceBlock struct {
	Name           string `hcl:"name,label"`
	Version        string `hcl:"version,optional"`
	Culture        string `hcl:"culture,optional"`
	PublicKeyToken string `hcl:"public_key_token,optional"`
	Token          string `hcl:"token,optional"`
	ContentType    string `hcl:"content_type,optional"`
}

type typeBlock struct {
	Name       string   `hcl:"name,label"`
	Interface  bool     `hcl:"interface,optional"`
	Base       string   `hcl:"base,optional"`
	Implements []string `hcl:"implements,optional"`
	Token      string   `hcl:"token,optional"`
}
