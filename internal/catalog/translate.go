package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/specialistvlad/asmtree/internal/metadata"
)

func translateAssembly(b *assemblyBlock, file string) (*metadata.Assembly, error) {
	if strings.TrimSpace(b.Name) == "" {
		return nil, fmt.Errorf("assembly in %s has an empty name", file)
	}
	name, err := assemblyName(b.Name, b.Version, b.Culture, b.PublicKeyToken)
	if err != nil {
		return nil, fmt.Errorf("assembly %q: %w", b.Name, err)
	}
	asm := metadata.NewAssembly(name)
	asm.FileName = b.File
	if asm.FileName == "" {
		asm.FileName = file
	}

	refs := make([]metadata.AssemblyRef, 0, len(b.References))
	refTokens := make([]metadata.Token, 0, len(b.References))
	for _, rb := range b.References {
		ref, err := translateReference(rb)
		if err != nil {
			return nil, fmt.Errorf("assembly %q: reference %q: %w", b.Name, rb.Name, err)
		}
		refs = append(refs, ref)
		refTokens = append(refTokens, ref.Token)
	}
	types := make([]*metadata.TypeDef, 0, len(b.Types))
	typeTokens := make([]metadata.Token, 0, len(b.Types))
	for _, tb := range b.Types {
		t, err := translateType(tb)
		if err != nil {
			return nil, fmt.Errorf("assembly %q: type %q: %w", b.Name, tb.Name, err)
		}
		types = append(types, t)
		typeTokens = append(typeTokens, t.Token)
	}

	// Explicit tokens are reserved before any row is numbered automatically,
	// so a later explicit token never collides with an earlier implicit one.
	if err := numberRows(refTokens, metadata.TableAssemblyRef, 1); err != nil {
		return nil, fmt.Errorf("assembly %q: reference %w", b.Name, err)
	}
	if err := numberRows(typeTokens, metadata.TableTypeDef, 2); err != nil {
		return nil, fmt.Errorf("assembly %q: type %w", b.Name, err)
	}
	for i, ref := range refs {
		ref.Token = refTokens[i]
		asm.AddReference(ref)
	}
	for i, t := range types {
		t.Token = typeTokens[i]
		asm.AddType(t)
	}
	return asm, nil
}

// numberRows fills the zero tokens in place with free rows of table, counting
// from first, and rejects explicit tokens used twice.
func numberRows(tokens []metadata.Token, table uint8, first uint32) error {
	used := make(map[metadata.Token]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == 0 {
			continue
		}
		if _, dup := used[tok]; dup {
			return fmt.Errorf("token %s is declared twice", tok)
		}
		used[tok] = struct{}{}
	}
	for i, tok := range tokens {
		if tok != 0 {
			continue
		}
		next := metadata.NewToken(table, first+uint32(i))
		for {
			if _, taken := used[next]; !taken {
				break
			}
			next++
		}
		tokens[i] = next
		used[next] = struct{}{}
	}
	return nil
}

func translateReference(b *referenceBlock) (metadata.AssemblyRef, error) {
	name, err := assemblyName(b.Name, b.Version, b.Culture, b.PublicKeyToken)
	if err != nil {
		return metadata.AssemblyRef{}, err
	}
	ref := metadata.AssemblyRef{AssemblyName: name}

	switch b.ContentType {
	case "", "default":
		ref.ContentType = metadata.ContentTypeDefault
	case "windows_runtime":
		ref.ContentType = metadata.ContentTypeWindowsRuntime
	default:
		return metadata.AssemblyRef{}, fmt.Errorf("unknown content_type %q", b.ContentType)
	}

	ref.Token, err = parseToken(b.Token, metadata.TableAssemblyRef)
	if err != nil {
		return metadata.AssemblyRef{}, err
	}
	return ref, nil
}

func translateType(b *typeBlock) (*metadata.TypeDef, error) {
	ref := metadata.ParseTypeRef(b.Name)
	if ref.Scope != "" || ref.Name == "" {
		return nil, fmt.Errorf("type name must be \"Namespace.Name\"")
	}
	t := &metadata.TypeDef{Namespace: ref.Namespace, Name: ref.Name, Interface: b.Interface}

	if b.Base != "" {
		if b.Interface {
			return nil, fmt.Errorf("interfaces cannot declare a base type")
		}
		base := metadata.ParseTypeRef(b.Base)
		t.BaseType = &base
	}
	for _, s := range b.Implements {
		t.Interfaces = append(t.Interfaces, metadata.ParseTypeRef(s))
	}

	var err error
	t.Token, err = parseToken(b.Token, metadata.TableTypeDef)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func assemblyName(name, version, culture, pkt string) (metadata.AssemblyName, error) {
	v, err := metadata.ParseVersion(version)
	if err != nil {
		return metadata.AssemblyName{}, err
	}
	if culture == "neutral" {
		culture = ""
	}
	return metadata.AssemblyName{Name: name, Version: v, Culture: culture, PublicKeyToken: pkt}, nil
}

// parseToken parses an optional hexadecimal token and checks its table.
// An empty string yields the zero token, which the assembly numbers later.
func parseToken(s string, table uint8) (metadata.Token, error) {
	if s == "" {
		return 0, nil
	}
	raw, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token %q: %w", s, err)
	}
	v, err := safecast.Conv[uint32](raw)
	if err != nil {
		return 0, fmt.Errorf("invalid token %q: %w", s, err)
	}
	tok := metadata.Token(v)
	if tok.Table() != table {
		return 0, fmt.Errorf("token %s belongs to table %02X, want %02X", tok, tok.Table(), table)
	}
	return tok, nil
}
