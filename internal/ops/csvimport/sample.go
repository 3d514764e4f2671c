// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package csvimport

import (
	"bytes"
	"encoding/csv"
)

// SampleCSV renders a downloadable template: the canonical column names in
// mapping order plus one example row showing the expected cell formats.
func SampleCSV() string {
	header := []string{
		"タイトル", "シリーズ", "発売日", "メーカー", "出演", "タグ",
		"サムネイル", "DLsite", "ポケットドラマ", "ステラプレイヤー",
	}
	example := []string{
		"蛇香のライラ ~Allure of MUSK~",
		"蛇香のライラ",
		"2023年4月1日",
		"Daisy2",
		"紫苑ヨウ、茶介",
		"乙女、シリアス",
		"//img.example.jp/lyla.jpg",
		"/maniax/work/=/product_id/RJ000001.html",
		"https://pocketdrama.jp/product/lyla",
		"",
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	_ = writer.Write(header)
	_ = writer.Write(example)
	writer.Flush()

	return buffer.String()
}

// SampleMapping is the mapping matching [SampleCSV]'s header.
func SampleMapping() Mapping {
	return Mapping{
		"タイトル":     FieldTitle,
		"シリーズ":     FieldSeries,
		"発売日":      FieldReleaseDate,
		"メーカー":     FieldMaker,
		"出演":       FieldCast,
		"タグ":       FieldTags,
		"サムネイル":    FieldThumbnailURL,
		"DLsite":   FieldDlsiteURL,
		"ポケットドラマ":  FieldPocketdramaURL,
		"ステラプレイヤー": FieldStellaplayerURL,
	}
}
