// Package region traduz um endereço IP em uma localidade legível a partir
// de um dataset estático de geolocalização.
//
// O registro de localidade é pipe-delimitado, no formato
// "país|reservado|província|cidade|isp". A função de consulta nunca propaga
// falha: IP ausente, IP malformado ou miss no dataset viram string vazia.
package region
