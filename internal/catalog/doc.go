// Package catalog loads assembly metadata descriptions from .hcl files.
//
// A catalog file declares any number of assemblies:
//
//	assembly "App" {
//	  version          = "1.0.0.0"
//	  public_key_token = "b77a5c561934e089"
//
//	  reference "Lib" {
//	    version = "1.0"
//	  }
//	  reference "Windows" {
//	    version      = "255.255.255.255"
//	    content_type = "windows_runtime"
//	  }
//
//	  type "App.Widget" {
//	    base       = "[Lib]Lib.Base"
//	    implements = ["[Lib]Lib.IFirst"]
//	  }
//	}
//
// Tokens are optional hexadecimal strings ("23000001"); rows are numbered in
// declaration order when they are omitted.
package catalog
