// Package storage decides whether a category period has already been
// downloaded.
//
// The portal names exported files itself, so there is no fixed naming
// contract to check against. The default Checker, Never, always answers
// false. A Manager built with a glob pattern answers by looking for a finished
// file in the download directory:
//
//	manager, err := storage.NewManager("downloads", "{category}_{year}_{month2}.*")
//	if err != nil {
//	    return err
//	}
//	if manager.IsDownloaded("Roubo", year, month) {
//	    // skip
//	}
//
// Files still carrying Chrome's .crdownload suffix are ignored.
package storage
