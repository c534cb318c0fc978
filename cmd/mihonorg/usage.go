package main

const usageText = `mihonorg organizes folders of manga images into Mihon-compatible chapters.

LAYOUT
  The source path holds one folder per title. Every image found anywhere
  inside a title folder (jpg, jpeg, png, gif, bmp, webp, tiff, tif) is
  collected, sorted by file name, and split into "Chapter 001", "Chapter 002",
  ... directories.

MODES
  copy (default)
      Originals are left untouched. Images are copied into
      <source>/Organized_Mihon/<title>/Chapter NNN/.
  --in-place
      Each title folder is first copied to <source>/_Backup/<title> (skipped
      when a backup already exists), then reorganized where it is. Directories
      left empty afterwards are removed.

CHAPTER SIZE
  -i, --images-per-chapter N
      Put N images in each chapter; the last chapter holds the remainder.
      Without it every image of a title goes into "Chapter 001".

NAMES
  Title folders are sanitized for Mihon: the characters < > : " / \ | ? *
  become "_", leading and trailing spaces and dots are dropped, and names are
  cut to 100 characters. Clashing file names get a numeric suffix
  (page.jpg, page_1.jpg, page_2.jpg).

SAFETY
  --dry-run prints the full plan, prefixed with [DRY RUN], without changing
  anything. Titles that are already organized are skipped, so running the
  same command twice is harmless. A failed copy or move is reported and the
  file is left where it was.

CONFIGURATION
  Defaults can be kept in ~/.config/mihonorg/config.toml or ./mihonorg.toml
  (see "mihonorg config init"). MIHONORG_* environment variables, including
  ones from a .env file in the working directory, override the file; flags
  override both.

EXAMPLES
  mihonorg -s ~/manga -i 20 --dry-run
  mihonorg -s ~/manga -i 20
  mihonorg -s ~/manga --in-place --report ~/mihonorg-report.json
`
