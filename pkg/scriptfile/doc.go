// SPDX-License-Identifier: MPL-2.0

// Package scriptfile parses the metadata comment block of shutl scripts
// into a typed command schema and resolves invocations against it.
//
// A script declares its interface in consecutive comment lines at the top
// of the file:
//
//	#!/bin/bash
//	#@description: Deploy the application
//	#@arg:target - Deployment target [default:staging]
//	#@arg:... - Extra arguments forwarded to the deploy tool
//	#@flag:dry-run - Print actions without executing them [bool,default:false]
//	#@flag:region - Cloud region [required,options:eu|us|ap]
//
// The same schema objects drive invocation validation, default application,
// environment variable construction, and shell completion.
package scriptfile
