// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package imfserr collects the closed set of errors IMFS entry points may
// return, modeled on the fuse.Errno values the core already understands.
package imfserr

import "github.com/jacobsa/fuse"

// The closed error set. Every IMFS entry point returns one of these, or nil.
var (
	ErrNotExist     = fuse.ENOENT
	ErrNotDir       = fuse.ENOTDIR
	ErrIsDir        = fuse.EISDIR
	ErrExist        = fuse.EEXIST
	ErrPermission   = fuse.EACCES
	ErrNoSpace      = fuse.ENOSPC
	ErrTooManyFiles = fuse.EMFILE
	ErrBadFd        = fuse.EBADF
	ErrBusy         = fuse.EBUSY
	ErrInvalid      = fuse.EINVAL
	ErrNameTooLong  = fuse.ENAMETOOLONG
	ErrNotSupported = fuse.ENOSYS
)
