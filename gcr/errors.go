// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcr

import "fmt"

// An ErrorCode is a DOS error number as reported by the drive firmware.
// Encoding a sector with an error code corrupts it the way a damaged disk
// would, so that the firmware detects the error on its own.
type ErrorCode int

// DOS error codes.
const (
	OK                   ErrorCode = 0
	FilesScratched       ErrorCode = 1
	BlockNotFound        ErrorCode = 20 // header block not found
	SyncNotFound         ErrorCode = 21
	DataBlockNotFound    ErrorCode = 22
	ChecksumError        ErrorCode = 23 // data block checksum
	GCRError             ErrorCode = 24
	VerifyError          ErrorCode = 25
	WriteProtectOn       ErrorCode = 26
	HeaderChecksumError  ErrorCode = 27
	DataTooLarge         ErrorCode = 28
	DiskIDMismatch       ErrorCode = 29
	SyntaxError          ErrorCode = 30
	InvalidCommand       ErrorCode = 31
	LineTooLong          ErrorCode = 32
	InvalidFilename      ErrorCode = 33
	NoFileGiven          ErrorCode = 34
	CommandNotFound      ErrorCode = 39
	RecordNotPresent     ErrorCode = 50
	RecordOverflow       ErrorCode = 51
	FileTooLarge         ErrorCode = 52
	WriteFileOpen        ErrorCode = 60
	FileNotOpen          ErrorCode = 61
	FileNotFound         ErrorCode = 62
	FileExists           ErrorCode = 63
	FileTypeMismatch     ErrorCode = 64
	NoBlock              ErrorCode = 65
	IllegalTrack         ErrorCode = 66
	IllegalTrackOrSector ErrorCode = 67
	NoChannel            ErrorCode = 70
	DirectoryError       ErrorCode = 71
	DiskFull             ErrorCode = 72
	DOSVersion           ErrorCode = 73
	DriveNotReady        ErrorCode = 74
)

var codeNames = map[ErrorCode]string{
	OK:                   "OK",
	FilesScratched:       "FILES SCRATCHED",
	BlockNotFound:        "READ ERROR (BLOCK HEADER NOT FOUND)",
	SyncNotFound:         "READ ERROR (NO SYNC CHARACTER)",
	DataBlockNotFound:    "READ ERROR (DATA BLOCK NOT PRESENT)",
	ChecksumError:        "READ ERROR (CHECKSUM ERROR IN DATA BLOCK)",
	GCRError:             "READ ERROR (BYTE DECODING ERROR)",
	VerifyError:          "WRITE ERROR (WRITE-VERIFY ERROR)",
	WriteProtectOn:       "WRITE PROTECT ON",
	HeaderChecksumError:  "READ ERROR (CHECKSUM ERROR IN HEADER)",
	DataTooLarge:         "WRITE ERROR (LONG DATA BLOCK)",
	DiskIDMismatch:       "DISK ID MISMATCH",
	SyntaxError:          "SYNTAX ERROR",
	InvalidCommand:       "SYNTAX ERROR (INVALID COMMAND)",
	LineTooLong:          "SYNTAX ERROR (LINE TOO LONG)",
	InvalidFilename:      "SYNTAX ERROR (INVALID FILE NAME)",
	NoFileGiven:          "SYNTAX ERROR (NO FILE GIVEN)",
	CommandNotFound:      "SYNTAX ERROR (COMMAND NOT FOUND)",
	RecordNotPresent:     "RECORD NOT PRESENT",
	RecordOverflow:       "OVERFLOW IN RECORD",
	FileTooLarge:         "FILE TOO LARGE",
	WriteFileOpen:        "WRITE FILE OPEN",
	FileNotOpen:          "FILE NOT OPEN",
	FileNotFound:         "FILE NOT FOUND",
	FileExists:           "FILE EXISTS",
	FileTypeMismatch:     "FILE TYPE MISMATCH",
	NoBlock:              "NO BLOCK",
	IllegalTrack:         "ILLEGAL TRACK OR SECTOR",
	IllegalTrackOrSector: "ILLEGAL SYSTEM T OR S",
	NoChannel:            "NO CHANNEL",
	DirectoryError:       "DIR ERROR",
	DiskFull:             "DISK FULL",
	DOSVersion:           "CBM DOS V2.6 1541",
	DriveNotReady:        "DRIVE NOT READY",
}

func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return fmt.Sprintf("%02d, %s", int(c), s)
	}
	return fmt.Sprintf("%02d", int(c))
}

// FromD64 maps an entry of a D64 error table to the error code the
// sector is encoded with. Unknown values map to OK.
func FromD64(b byte) ErrorCode {
	switch b {
	case 0x02:
		return BlockNotFound
	case 0x03:
		return SyncNotFound
	case 0x04:
		return DataBlockNotFound
	case 0x05:
		return ChecksumError
	case 0x07:
		return VerifyError
	case 0x08:
		return WriteProtectOn
	case 0x09:
		return HeaderChecksumError
	case 0x0a:
		return DataTooLarge
	case 0x0b:
		return DiskIDMismatch
	case 0x0f:
		return DriveNotReady
	case 0x10:
		return GCRError
	default:
		return OK
	}
}
